package activity

import (
	"math"

	"github.com/merito/gigscore/internal/domain/model"
)

// Fairness constants. The exponential decay gives diminishing marginal
// penalty for longer absences; the tier factor cushions lower tiers.
const (
	inactivityPenaltyCap = 100
	inactivityHalfScale  = 30
	inconsistencyPenalty = 30
	consistencyBonus     = 20
	maxLevelScore        = 1000
)

var tierFactor = map[model.Tier]float64{
	model.Bronze: 0.5,
	model.Amber:  0.75,
	model.Ruby:   1.0,
	model.Gold:   1.0,
}

// Adjust applies the fairness penalty and consistency bonus to an
// initial score. The tier must be the one classified from the initial
// score, before any fairness adjustment. The adjusted score is clamped
// into [0, 1000].
func Adjust(initial float64, tier model.Tier, inactivityDays, inconsistentDays int) (after float64, penalty, bonus int) {
	if inactivityDays > 0 {
		penalty = int(inactivityPenaltyCap * (1 - math.Exp(-float64(inactivityDays)/inactivityHalfScale)))
	}
	if inconsistentDays > 0 {
		penalty += inconsistencyPenalty
	}
	factor, ok := tierFactor[tier]
	if !ok {
		factor = 1.0
	}
	penalty = int(float64(penalty) * factor)

	if inactivityDays == 0 && inconsistentDays == 0 {
		bonus = consistencyBonus
	}

	after = math.Max(0, initial-float64(penalty))
	after = math.Min(maxLevelScore, after+float64(bonus))
	return after, penalty, bonus
}
