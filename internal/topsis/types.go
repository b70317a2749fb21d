// Package topsis ranks alternatives scored on several criteria by their relative
// closeness to an ideal solution (TOPSIS).
//
// The pipeline is Validate → Normalize → IdealSolutions → Separations/Closeness → Rank.
// Every step is a pure function of its arguments; nothing is shared between runs.
package topsis

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Impact is the preference direction of one criterion.
type Impact int

const (
	Maximize Impact = iota + 1
	Minimize
)

func (i Impact) String() string {
	switch i {
	case Maximize:
		return "+"
	case Minimize:
		return "-"
	default:
		return fmt.Sprintf("Impact(%d)", int(i))
	}
}

// ParseImpact accepts exactly "+" or "-".
func ParseImpact(token string) (Impact, error) {
	switch token {
	case "+":
		return Maximize, nil
	case "-":
		return Minimize, nil
	}
	return 0, newError(KindParse, "impacts must be '+' or '-' separated by commas, got %q", token)
}

// RawTable is a delimited dataset as read from disk: the header row and the data
// records, every cell untouched. Column 0 holds the alternative identifier.
type RawTable struct {
	Header  []string
	Records [][]string
}

func (t RawTable) Columns() int { return len(t.Header) }

// Criteria is the validated numeric part of a RawTable.
type Criteria struct {
	IDs    []string
	Names  []string
	Values *mat.Dense
}

func (c Criteria) Dims() (rows, criteria int) { return c.Values.Dims() }

// Input is everything the algorithm needs once validation has passed.
type Input struct {
	Criteria Criteria
	Weights  []float64
	Impacts  []Impact
}

// Result holds the outcome of one run. Scores and Ranks are in input row order.
type Result struct {
	Scores          []float64
	Ranks           []int
	Norms           []float64
	IdealBest       []float64
	IdealWorst      []float64
	SeparationBest  []float64
	SeparationWorst []float64
	Weights         []float64
	Impacts         []Impact
	Names           []string
	IDs             []string
}

// Order returns row indices from rank 1 to rank n.
func (r Result) Order() []int {
	out := make([]int, len(r.Ranks))
	for i, rank := range r.Ranks {
		out[rank-1] = i
	}
	return out
}

// FormatImpacts renders impacts the way they are accepted on input, e.g. "+,-,+".
func FormatImpacts(impacts []Impact) string {
	parts := make([]string, len(impacts))
	for i, imp := range impacts {
		parts[i] = imp.String()
	}
	return strings.Join(parts, ",")
}
