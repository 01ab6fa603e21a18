package app

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	fsutil "github.com/kk-code-lab/rfiles/internal/fs"
	"go.uber.org/zap/zaptest"
)

func newTestBoundary(t *testing.T) (*boundary, *fsutil.Store) {
	t.Helper()
	store := fsutil.NewStore("My Files")
	root := store.RootID()
	if _, err := store.Add(fsutil.Node{ID: "F1", Name: "Reports", Kind: fsutil.KindFolder}, root); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := store.Add(fsutil.Node{ID: "N1", Name: "Q1.pdf", FileType: fsutil.FileTypePDF, SizeBytes: 2048}, "F1"); err != nil {
		t.Fatalf("add: %v", err)
	}
	b := newBoundary(t.TempDir(), zaptest.NewLogger(t))
	b.store = store
	b.newToken = func() string { return "tok" }
	return b, store
}

func TestBoundaryDownloadWritesSubtree(t *testing.T) {
	b, store := newTestBoundary(t)
	folder, _ := store.Get("F1")

	msg, err := b.Download(folder)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	path := filepath.Join(b.downloadDir, "Reports.csv")
	if !strings.Contains(msg, "2 row(s)") || !strings.HasSuffix(msg, path) {
		t.Fatalf("unexpected message %q", msg)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "Reports" || rows[2][0] != "Q1.pdf" {
		t.Fatalf("expected folder then file, got %v / %v", rows[1], rows[2])
	}
}

func TestBoundaryDownloadMissingNode(t *testing.T) {
	b, _ := newTestBoundary(t)
	if _, err := b.Download(fsutil.Node{ID: "gone", Name: "gone"}); !errors.Is(err, fsutil.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBoundaryShareMarksNodeAndCopiesLink(t *testing.T) {
	b, store := newTestBoundary(t)
	var copied string
	b.copyText = func(s string) error {
		copied = s
		return nil
	}
	file, _ := store.Get("N1")

	msg, err := b.Share(file)
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	want := shareBaseURL + "tok"
	if copied != want || msg != "link copied: "+want {
		t.Fatalf("expected %q copied, got %q (message %q)", want, copied, msg)
	}
	if got, _ := store.Get("N1"); !got.Shared {
		t.Fatalf("expected node marked shared")
	}
}

func TestBoundaryShareWithoutClipboard(t *testing.T) {
	b, store := newTestBoundary(t)
	b.copyText = func(string) error { return errClipboardUnavailable }
	file, _ := store.Get("N1")

	msg, err := b.Share(file)
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	if msg != "share link: "+shareBaseURL+"tok" {
		t.Fatalf("expected the link in the message, got %q", msg)
	}
}

func TestDownloadFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Reports", "Reports.csv"},
		{"a/b:c", "a_b_c.csv"},
		{"  spaced  ", "spaced.csv"},
		{"..", "download.csv"},
		{"", "download.csv"},
		{"bell\x07name", "bellname.csv"},
		{"Zdjęcia", "Zdjęcia.csv"},
	}
	for _, tt := range tests {
		if got := downloadFileName(tt.in); got != tt.want {
			t.Errorf("downloadFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
