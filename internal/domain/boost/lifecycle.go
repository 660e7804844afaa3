package boost

import (
	"github.com/merito/gigscore/internal/domain/feature"
	"github.com/merito/gigscore/internal/domain/model"
)

// Per-role lifecycle bonus constants.
var roleBonuses = map[model.Role]struct {
	FirstTime float64
	Milestone float64
}{
	model.RoleDriver:          {FirstTime: 40, Milestone: 10},
	model.RoleMerchant:        {FirstTime: 30, Milestone: 10},
	model.RoleDeliveryPartner: {FirstTime: 40, Milestone: 10},
}

// milestoneVolume is the 30-day volume above which the milestone bonus
// applies (ride count, sales, or delivery count depending on role).
const milestoneVolume = 100

// LifecycleBonus returns the additive onboarding and milestone bonuses
// for a profile. The first-time bonus applies once, in the user's first
// active month on a first-time account. Unknown roles earn no lifecycle
// bonus.
func LifecycleBonus(p model.UserProfile) float64 {
	bonuses, ok := roleBonuses[p.Role]
	if !ok {
		return 0
	}
	total := 0.0
	if p.MonthActive == 1 && p.FirstTimeAccount {
		total += bonuses.FirstTime
	}
	if name := feature.MilestoneFeature(p.Role); name != "" && p.Features[name] > milestoneVolume {
		total += bonuses.Milestone
	}
	return total
}
