package dataset

import (
	"path/filepath"
	"strings"
)

type Format string

const (
	FormatCSV    Format = "csv"
	FormatTSV    Format = "tsv"
	FormatSQLite Format = "sqlite"
)

// FormatFor picks a format from the file extension. Unknown extensions are CSV.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return FormatTSV
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatCSV
	}
}

func (f Format) Comma() rune {
	if f == FormatTSV {
		return '\t'
	}
	return ','
}
