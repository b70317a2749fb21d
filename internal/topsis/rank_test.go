package topsis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestRank(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   []int
	}{
		{"empty", nil, []int{}},
		{"single", []float64{0.3}, []int{1}},
		{"descending", []float64{0.9, 0.5, 0.1}, []int{1, 2, 3}},
		{"ascending", []float64{0.1, 0.5, 0.9}, []int{3, 2, 1}},
		{"ties keep input order", []float64{0.5, 0.7, 0.5, 0.7}, []int{3, 1, 4, 2}},
		{"all equal", []float64{0, 0, 0}, []int{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rank(tt.scores))
		})
	}
}

func TestClosenessZeroDenominator(t *testing.T) {
	got := Closeness([]float64{0, 1, 0}, []float64{0, 1, 2})
	assert.Equal(t, []float64{0, 0.5, 1}, got)
}

func TestIdealSolutionsFollowImpacts(t *testing.T) {
	w := mat.NewDense(3, 2, []float64{
		0.1, 0.9,
		0.5, 0.2,
		0.3, 0.4,
	})
	best, worst := IdealSolutions(w, []Impact{Maximize, Minimize})
	assert.Equal(t, []float64{0.5, 0.2}, best)
	assert.Equal(t, []float64{0.1, 0.9}, worst)
}

func TestNormalizeAppliesWeights(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{3, 0, 4, 2})
	w, norms, err := Normalize(m, []float64{2, 1}, []string{"x", "y"})
	assert.NoError(t, err)
	assert.InDeltaSlice(t, []float64{5, 2}, norms, tol)
	assert.InDelta(t, 1.2, w.At(0, 0), tol)
	assert.InDelta(t, 1.6, w.At(1, 0), tol)
	assert.InDelta(t, 0.0, w.At(0, 1), tol)
	assert.InDelta(t, 1.0, w.At(1, 1), tol)
}

func TestNormalizeReportsUnnamedColumn(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 0, 1, 0})
	_, _, err := Normalize(m, []float64{1, 1}, nil)
	assert.ErrorIs(t, err, ErrDegenerateColumn)
	assert.Contains(t, err.Error(), "criterion 2")
}
