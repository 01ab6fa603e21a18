package upload

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	sniffSampleSize              = 4096
	nonPrintableThresholdPercent = 30
)

// Extensions that are never text, even when mime has no entry for them.
var binaryExtensions = map[string]struct{}{
	".7z": {}, ".apk": {}, ".bin": {}, ".class": {}, ".dmg": {}, ".dll": {},
	".exe": {}, ".gz": {}, ".iso": {}, ".jar": {}, ".mov": {}, ".o": {},
	".psd": {}, ".so": {}, ".tar": {}, ".tgz": {}, ".ttf": {}, ".wasm": {},
	".woff": {}, ".woff2": {}, ".xz": {}, ".zip": {},
}

// sniffMimeType reads the head of path and reports a text/plain type when
// it looks like text. Anything else, including read errors, is "".
func sniffMimeType(path string) string {
	if _, binary := binaryExtensions[strings.ToLower(filepath.Ext(path))]; binary {
		return ""
	}
	sample, err := readHead(path, sniffSampleSize)
	if err != nil {
		return ""
	}
	return textMimeType(sample)
}

func readHead(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return io.ReadAll(io.LimitReader(f, limit))
}

// textMimeType classifies a sample. Empty content counts as text.
func textMimeType(sample []byte) string {
	switch {
	case bytes.HasPrefix(sample, []byte{0xFF, 0xFE}):
		return "text/plain; charset=utf-16le"
	case bytes.HasPrefix(sample, []byte{0xFE, 0xFF}):
		return "text/plain; charset=utf-16be"
	case bytes.HasPrefix(sample, []byte{0xEF, 0xBB, 0xBF}):
		return "text/plain; charset=utf-8"
	case bytes.IndexByte(sample, 0x00) != -1:
		return ""
	case utf8.Valid(sample):
		return "text/plain; charset=utf-8"
	}

	nonPrintable := 0
	for _, b := range sample {
		if !isCommonTextByte(b) {
			nonPrintable++
		}
	}
	if nonPrintable*100/len(sample) < nonPrintableThresholdPercent {
		return "text/plain"
	}
	return ""
}

func isCommonTextByte(b byte) bool {
	switch {
	case b == 0x09 || b == 0x0A || b == 0x0D:
		return true
	case b >= 0x20 && b <= 0x7E:
		return true
	case b == 0x1B:
		return true
	case b >= 0x80:
		return true
	default:
		return false
	}
}
