package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joelkehle/topsis-agency/internal/topsis"
)

const (
	ScoreColumn = "Topsis Score"
	RankColumn  = "Rank"
)

// WriteFile writes the input table plus score and rank columns to path in the
// format implied by its extension. The file is written to a temporary name and
// renamed into place, so a failed write never leaves a partial result.
func WriteFile(path string, table topsis.RawTable, res topsis.Result) error {
	if len(table.Records) != len(res.Scores) {
		return fmt.Errorf("records/results length mismatch: %d vs %d", len(table.Records), len(res.Scores))
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	tmp := path + ".tmp"
	var err error
	switch format := FormatFor(path); format {
	case FormatSQLite:
		err = writeSQLiteFile(tmp, table, res)
	default:
		err = writeDelimitedFile(tmp, format.Comma(), table, res)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func writeDelimitedFile(path string, comma rune, table topsis.RawTable, res topsis.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create result file: %w", err)
	}
	if err := WriteDelimited(f, comma, table, res); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteDelimited writes the header and records verbatim with the two result
// columns appended, in input row order.
func WriteDelimited(w io.Writer, comma rune, table topsis.RawTable, res topsis.Result) error {
	writer := csv.NewWriter(w)
	writer.Comma = comma
	header := append(append([]string{}, table.Header...), ScoreColumn, RankColumn)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, rec := range table.Records {
		row := append(append([]string{}, rec...), FormatScore(res.Scores[i]), strconv.Itoa(res.Ranks[i]))
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush result: %w", err)
	}
	return nil
}

// FormatScore prints the shortest representation that round-trips.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
