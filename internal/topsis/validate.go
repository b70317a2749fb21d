package topsis

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

const (
	MinColumns       = 3
	maxReportedCells = 3
)

type badCell struct {
	row    int
	column string
	value  string
}

// Validate checks a raw table and the weights/impacts parameters and converts
// them into an Input. Weights and impacts are parsed first since they do not
// depend on the table; the column-count check runs before any cell is parsed.
func Validate(table RawTable, weights, impacts string) (Input, error) {
	w, err := ParseWeights(weights)
	if err != nil {
		return Input{}, err
	}
	imp, err := ParseImpacts(impacts)
	if err != nil {
		return Input{}, err
	}
	if err := checkStructure(table); err != nil {
		return Input{}, err
	}
	criteria, err := parseCriteria(table)
	if err != nil {
		return Input{}, err
	}
	n := table.Columns() - 1
	if len(w) != n || len(imp) != n {
		return Input{}, newError(KindCountMismatch,
			"weights and impacts count must equal criteria count (%d), got %d weights and %d impacts", n, len(w), len(imp))
	}
	return Input{Criteria: criteria, Weights: w, Impacts: imp}, nil
}

// ParseWeights splits s on commas. Blank tokens are skipped; every other token
// must be a positive finite number.
func ParseWeights(s string) ([]float64, error) {
	var out []float64
	for _, tok := range splitTokens(s) {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil || !plainDecimal(tok) {
			return nil, newError(KindParse, "weights must be numeric and separated by commas, got %q", tok)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return nil, newError(KindParse, "weights must be positive finite numbers, got %q", tok)
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseImpacts splits s on commas; blank tokens are skipped.
func ParseImpacts(s string) ([]Impact, error) {
	var out []Impact
	for _, tok := range splitTokens(s) {
		imp, err := ParseImpact(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, imp)
	}
	return out, nil
}

func splitTokens(s string) []string {
	var out []string
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func checkStructure(table RawTable) error {
	cols := table.Columns()
	if cols < MinColumns {
		return newError(KindStructure, "input file must have at least %d columns, got %d", MinColumns, cols)
	}
	if len(table.Records) == 0 {
		return newError(KindStructure, "input file has no data rows")
	}
	for i, rec := range table.Records {
		if len(rec) != cols {
			return newError(KindStructure, "row %d has %d columns, header has %d", i+1, len(rec), cols)
		}
	}
	return nil
}

func parseCriteria(table RawTable) (Criteria, error) {
	rows, n := len(table.Records), table.Columns()-1
	data := make([]float64, 0, rows*n)
	ids := make([]string, rows)
	var bad []badCell
	for i, rec := range table.Records {
		ids[i] = rec[0]
		for j, cell := range rec[1:] {
			v, ok := parseCell(cell)
			if !ok {
				bad = append(bad, badCell{row: i + 1, column: table.Header[j+1], value: cell})
			}
			data = append(data, v)
		}
	}
	if len(bad) > 0 {
		return Criteria{}, numericError(bad)
	}
	names := make([]string, n)
	copy(names, table.Header[1:])
	return Criteria{IDs: ids, Names: names, Values: mat.NewDense(rows, n, data)}, nil
}

func parseCell(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || !plainDecimal(cell) || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// plainDecimal rejects the Go literal forms ParseFloat also accepts: digit
// separators ("1_000") and hexadecimal floats ("0x1p4").
func plainDecimal(s string) bool {
	if strings.ContainsRune(s, '_') {
		return false
	}
	s = strings.TrimLeft(s, "+-")
	return !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X")
}

func numericError(bad []badCell) error {
	var b strings.Builder
	for i, c := range bad {
		if i == maxReportedCells {
			fmt.Fprintf(&b, "; and %d more", len(bad)-maxReportedCells)
			break
		}
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "row %d column %q value %q", c.row, c.column, c.value)
	}
	return newError(KindNumeric, "columns 2 onwards must contain only numeric values: %s", b.String())
}
