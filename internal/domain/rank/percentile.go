// Package rank provides the rank-based primitives shared by both score
// engines: percentile normalization against a population and the
// score-to-tier classifier.
package rank

// PercentileRank returns the fraction of population strictly below value
// plus half the fraction equal to it. An empty population yields 0;
// that is a documented degenerate result, not an error.
//
// The same function serves both call sites in the pipeline: the
// normalized raw-score population and the peer role-score population.
func PercentileRank(value float64, population []float64) float64 {
	if len(population) == 0 {
		return 0
	}
	var less, equal int
	for _, x := range population {
		switch {
		case x < value:
			less++
		case x == value:
			equal++
		}
	}
	return (float64(less) + 0.5*float64(equal)) / float64(len(population))
}
