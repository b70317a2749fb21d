package topsis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Separations returns the Euclidean distance of every weighted row from the
// ideal best and ideal worst vectors.
func Separations(weighted *mat.Dense, best, worst []float64) (sBest, sWorst []float64) {
	rows, _ := weighted.Dims()
	sBest = make([]float64, rows)
	sWorst = make([]float64, rows)
	for i := 0; i < rows; i++ {
		row := weighted.RawRowView(i)
		sBest[i] = floats.Distance(row, best, 2)
		sWorst[i] = floats.Distance(row, worst, 2)
	}
	return sBest, sWorst
}

// Closeness combines separations into sWorst / (sBest + sWorst). A row whose
// separations sum to exactly zero scores 0 instead of NaN.
func Closeness(sBest, sWorst []float64) []float64 {
	scores := make([]float64, len(sBest))
	for i := range sBest {
		denom := sBest[i] + sWorst[i]
		if denom == 0 {
			continue
		}
		scores[i] = sWorst[i] / denom
	}
	return scores
}
