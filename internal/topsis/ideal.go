package topsis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// IdealSolutions picks, per column of the weighted matrix, the best and worst
// value under that column's impact.
func IdealSolutions(weighted mat.Matrix, impacts []Impact) (best, worst []float64) {
	rows, cols := weighted.Dims()
	best = make([]float64, cols)
	worst = make([]float64, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, weighted)
		hi, lo := floats.Max(col), floats.Min(col)
		if impacts[j] == Minimize {
			hi, lo = lo, hi
		}
		best[j], worst[j] = hi, lo
	}
	return best, worst
}
