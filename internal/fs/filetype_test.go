package fs

import "testing"

func TestFileTypeTableIsComplete(t *testing.T) {
	seen := make(map[string]bool)
	for _, ft := range AllFileTypes() {
		info := ft.Info()
		if info.Name == "" || info.Label == "" || info.Icon == 0 {
			t.Fatalf("file type %d has an incomplete table entry: %+v", ft, info)
		}
		if seen[info.Name] {
			t.Fatalf("duplicate file type name %q", info.Name)
		}
		seen[info.Name] = true

		parsed, ok := ParseFileType(info.Name)
		if !ok || parsed != ft {
			t.Fatalf("ParseFileType(%q) = %v, %v; want %v", info.Name, parsed, ok, ft)
		}
	}
	if len(seen) != 8 {
		t.Fatalf("expected 8 file types, got %d", len(seen))
	}
}

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		name string
		mime string
		want FileType
	}{
		{"report.PDF", "", FileTypePDF},
		{"essay.docx", "", FileTypeWord},
		{"grades.xlsx", "", FileTypeExcel},
		{"deck.pptx", "", FileTypePowerPoint},
		{"photo", "image/jpeg", FileTypeImage},
		{"clip", "video/mp4", FileTypeVideo},
		{"readme", "text/plain; charset=utf-8", FileTypeDocument},
		{"scan", "application/pdf", FileTypePDF},
		{"blob.bin", "application/octet-stream", FileTypeOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFileType(tt.name, tt.mime); got != tt.want {
				t.Fatalf("DetectFileType(%q, %q) = %v, want %v", tt.name, tt.mime, got, tt.want)
			}
		})
	}
}

func TestUnknownFileTypeFallsBackToOther(t *testing.T) {
	if got := FileType(99).Info().Name; got != "other" {
		t.Fatalf("expected fallback to other, got %q", got)
	}
}
