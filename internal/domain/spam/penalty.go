package spam

import "math"

// Penalty rule constants.
const (
	// DefaultThreshold is the hybrid score above which the penalty fires.
	DefaultThreshold = 0.7
	// PenaltyPoints is subtracted from the affected score when flagged.
	PenaltyPoints = 100
)

// ApplyPenalty subtracts the fixed penalty from the primary score and
// half of it from the paired secondary score when hybrid exceeds the
// threshold, flooring both at 0. The returned flag reports whether the
// penalty fired.
func ApplyPenalty(primary, secondary, hybrid, threshold float64) (float64, float64, bool) {
	if hybrid <= threshold {
		return primary, secondary, false
	}
	primary = math.Max(0, primary-PenaltyPoints)
	secondary = math.Max(0, secondary-PenaltyPoints/2)
	return primary, secondary, true
}
