package topsis

// Run validates the raw inputs and evaluates them.
func Run(table RawTable, weights, impacts string) (Result, error) {
	in, err := Validate(table, weights, impacts)
	if err != nil {
		return Result{}, err
	}
	return Evaluate(in)
}

// Evaluate runs normalization, ideal-solution search, scoring and ranking on
// an already validated Input. Hand-built inputs are checked for shape only.
func Evaluate(in Input) (Result, error) {
	if in.Criteria.Values == nil {
		return Result{}, newError(KindStructure, "input has no criteria matrix")
	}
	if _, n := in.Criteria.Dims(); len(in.Weights) != n || len(in.Impacts) != n {
		return Result{}, newError(KindCountMismatch,
			"weights and impacts count must equal criteria count (%d), got %d weights and %d impacts", n, len(in.Weights), len(in.Impacts))
	}
	weighted, norms, err := Normalize(in.Criteria.Values, in.Weights, in.Criteria.Names)
	if err != nil {
		return Result{}, err
	}
	best, worst := IdealSolutions(weighted, in.Impacts)
	sBest, sWorst := Separations(weighted, best, worst)
	scores := Closeness(sBest, sWorst)
	return Result{
		Scores:          scores,
		Ranks:           Rank(scores),
		Norms:           norms,
		IdealBest:       best,
		IdealWorst:      worst,
		SeparationBest:  sBest,
		SeparationWorst: sWorst,
		Weights:         in.Weights,
		Impacts:         in.Impacts,
		Names:           in.Criteria.Names,
		IDs:             in.Criteria.IDs,
	}, nil
}
