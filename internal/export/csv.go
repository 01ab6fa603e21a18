// Package export writes node listings as spreadsheet-friendly CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	fsutil "github.com/kk-code-lab/rfiles/internal/fs"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Header is the first CSV row.
var Header = []string{"name", "kind", "type", "size_bytes", "modified", "owner", "starred", "shared"}

// WriteCSV writes nodes in order as UTF-8 CSV prefixed with a byte order mark.
// Folders leave type and size empty.
func WriteCSV(w io.Writer, nodes []fsutil.Node) error {
	bom := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	cw := csv.NewWriter(bom)

	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, n := range nodes {
		if err := cw.Write(row(n)); err != nil {
			return fmt.Errorf("export %q: %w", n.Name, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bom.Close()
}

func row(n fsutil.Node) []string {
	fileType, size := "", ""
	if !n.IsFolder() {
		fileType = n.FileType.String()
		size = strconv.FormatInt(n.SizeBytes, 10)
	}
	modified := ""
	if !n.ModifiedAt.IsZero() {
		modified = n.ModifiedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		n.Name,
		n.Kind.String(),
		fileType,
		size,
		modified,
		n.Owner,
		strconv.FormatBool(n.Starred),
		strconv.FormatBool(n.Shared),
	}
}

// WriteFile exports nodes to path, replacing any existing file.
func WriteFile(path string, nodes []fsutil.Node) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteCSV(f, nodes)
}
