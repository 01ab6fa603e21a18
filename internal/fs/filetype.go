package fs

import (
	"path/filepath"
	"strings"
)

// FileType is the closed set of content types a file can carry.
type FileType uint8

const (
	FileTypeDocument FileType = iota
	FileTypeImage
	FileTypeVideo
	FileTypePDF
	FileTypeWord
	FileTypeExcel
	FileTypePowerPoint
	FileTypeOther

	fileTypeCount
)

// FileTypeInfo is the static description of a file type.
type FileTypeInfo struct {
	Name  string // stable identifier used in config, CSV and filters
	Label string // human label
	Icon  rune
}

// fileTypeTable must list every FileType; the assertion below fails to
// compile when a type is added without a table entry.
var fileTypeTable = [...]FileTypeInfo{
	FileTypeDocument:   {Name: "document", Label: "Document", Icon: '≣'},
	FileTypeImage:      {Name: "image", Label: "Image", Icon: '▣'},
	FileTypeVideo:      {Name: "video", Label: "Video", Icon: '▶'},
	FileTypePDF:        {Name: "pdf", Label: "PDF", Icon: '◧'},
	FileTypeWord:       {Name: "word", Label: "Word", Icon: 'W'},
	FileTypeExcel:      {Name: "excel", Label: "Excel", Icon: 'X'},
	FileTypePowerPoint: {Name: "powerpoint", Label: "PowerPoint", Icon: 'P'},
	FileTypeOther:      {Name: "other", Label: "Other", Icon: '·'},
}

var _ = [1]struct{}{}[len(fileTypeTable)-int(fileTypeCount)]

// AllFileTypes returns every file type in declaration order.
func AllFileTypes() []FileType {
	out := make([]FileType, 0, fileTypeCount)
	for t := FileType(0); t < fileTypeCount; t++ {
		out = append(out, t)
	}
	return out
}

// Valid reports whether t is a declared file type.
func (t FileType) Valid() bool {
	return t < fileTypeCount
}

// Info returns the table entry for t. Unknown values map to FileTypeOther.
func (t FileType) Info() FileTypeInfo {
	if !t.Valid() {
		return fileTypeTable[FileTypeOther]
	}
	return fileTypeTable[t]
}

func (t FileType) String() string {
	return t.Info().Name
}

// ParseFileType resolves a type by its stable name.
func ParseFileType(name string) (FileType, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t := FileType(0); t < fileTypeCount; t++ {
		if fileTypeTable[t].Name == name {
			return t, true
		}
	}
	return FileTypeOther, false
}

var extensionTypes = map[string]FileType{
	".pdf":  FileTypePDF,
	".doc":  FileTypeWord,
	".docx": FileTypeWord,
	".odt":  FileTypeWord,
	".xls":  FileTypeExcel,
	".xlsx": FileTypeExcel,
	".ods":  FileTypeExcel,
	".csv":  FileTypeExcel,
	".ppt":  FileTypePowerPoint,
	".pptx": FileTypePowerPoint,
	".odp":  FileTypePowerPoint,
	".txt":  FileTypeDocument,
	".md":   FileTypeDocument,
	".rtf":  FileTypeDocument,
	".html": FileTypeDocument,
	".png":  FileTypeImage,
	".jpg":  FileTypeImage,
	".jpeg": FileTypeImage,
	".gif":  FileTypeImage,
	".svg":  FileTypeImage,
	".webp": FileTypeImage,
	".mp4":  FileTypeVideo,
	".mov":  FileTypeVideo,
	".mkv":  FileTypeVideo,
	".webm": FileTypeVideo,
	".avi":  FileTypeVideo,
}

// DetectFileType classifies a file by extension first, then by mime type.
func DetectFileType(name, mimeType string) FileType {
	if t, ok := extensionTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}

	mimeType = strings.ToLower(mimeType)
	if idx := strings.IndexByte(mimeType, ';'); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	switch {
	case mimeType == "application/pdf":
		return FileTypePDF
	case strings.HasPrefix(mimeType, "image/"):
		return FileTypeImage
	case strings.HasPrefix(mimeType, "video/"):
		return FileTypeVideo
	case strings.HasPrefix(mimeType, "text/"):
		return FileTypeDocument
	case strings.Contains(mimeType, "wordprocessingml"), mimeType == "application/msword":
		return FileTypeWord
	case strings.Contains(mimeType, "spreadsheetml"), mimeType == "application/vnd.ms-excel":
		return FileTypeExcel
	case strings.Contains(mimeType, "presentationml"), mimeType == "application/vnd.ms-powerpoint":
		return FileTypePowerPoint
	}
	return FileTypeOther
}
