package topsis

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// table builds a RawTable with identifiers A1..An and criteria C1..Cm.
func table(t *testing.T, values [][]float64) RawTable {
	t.Helper()
	require.NotEmpty(t, values)
	header := []string{"Alternative"}
	for j := range values[0] {
		header = append(header, "C"+strconv.Itoa(j+1))
	}
	out := RawTable{Header: header}
	for i, row := range values {
		rec := []string{"A" + strconv.Itoa(i+1)}
		for _, v := range row {
			rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
		}
		out.Records = append(out.Records, rec)
	}
	return out
}
