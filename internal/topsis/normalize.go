package topsis

import (
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ColumnNorms returns the Euclidean norm of every column of m.
func ColumnNorms(m mat.Matrix) []float64 {
	rows, cols := m.Dims()
	norms := make([]float64, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, m)
		norms[j] = floats.Norm(col, 2)
	}
	return norms
}

// Normalize divides every column of m by its norm and scales it by its weight.
// A column whose norm is zero cannot be normalized and aborts the run.
func Normalize(m mat.Matrix, weights []float64, names []string) (*mat.Dense, []float64, error) {
	norms := ColumnNorms(m)
	for j, n := range norms {
		if n == 0 {
			return nil, nil, newError(KindDegenerateColumn, "column with all zeros detected: %s", columnLabel(names, j))
		}
	}
	rows, cols := m.Dims()
	weighted := mat.NewDense(rows, cols, nil)
	weighted.Apply(func(_, j int, v float64) float64 {
		return v / norms[j] * weights[j]
	}, m)
	return weighted, norms, nil
}

func columnLabel(names []string, j int) string {
	if j < len(names) && names[j] != "" {
		return strconv.Quote(names[j])
	}
	return "criterion " + strconv.Itoa(j+1)
}
