// Package dataset reads criteria tables from delimited files and writes ranked
// results back out as CSV, TSV or a SQLite file.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/joelkehle/topsis-agency/internal/topsis"
)

var ErrEmpty = errors.New("input file is empty")

// ReadFile opens path and reads it with the delimiter implied by its extension.
func ReadFile(path string) (topsis.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return topsis.RawTable{}, fmt.Errorf("file not found: %s", path)
		}
		return topsis.RawTable{}, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	table, err := Read(f, FormatFor(path).Comma())
	if err != nil {
		return topsis.RawTable{}, fmt.Errorf("unable to read %s: %w", filepath.Base(path), err)
	}
	return table, nil
}

// Read parses a delimited table. A UTF-8 or UTF-16 byte order mark is honoured
// and removed; without one the input is taken as UTF-8. Records may have any
// number of cells, the shape is checked by topsis.Validate.
func Read(r io.Reader, comma rune) (topsis.RawTable, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return topsis.RawTable{}, err
	}
	if len(rows) == 0 {
		return topsis.RawTable{}, ErrEmpty
	}
	return topsis.RawTable{Header: rows[0], Records: rows[1:]}, nil
}
