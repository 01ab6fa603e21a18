package upload

import (
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// BlobsFromPaths stats local files and describes them as blobs. Directories
// contribute every visible regular file beneath them; hidden entries are
// skipped. Only files without a known extension are opened, to sniff for text.
func BlobsFromPaths(paths []string) ([]Blob, error) {
	var blobs []Blob
	var errs []error
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !info.IsDir() {
			blobs = append(blobs, blobFromFile(p, info))
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != p && isHidden(path, d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			fi, err := d.Info()
			if err != nil {
				return err
			}
			blobs = append(blobs, blobFromFile(path, fi))
			return nil
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("walk %s: %w", p, err))
		}
	}
	return blobs, errors.Join(errs...)
}

func blobFromFile(path string, info fs.FileInfo) Blob {
	mimeType := mime.TypeByExtension(filepath.Ext(info.Name()))
	if mimeType == "" {
		mimeType = sniffMimeType(path)
	}
	return Blob{
		Name:      info.Name(),
		SizeBytes: info.Size(),
		MimeType:  mimeType,
	}
}

// SplitPaths breaks prompt input on commas.
func SplitPaths(input string) []string {
	var out []string
	for _, p := range strings.Split(input, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
