package rank

import "github.com/merito/gigscore/internal/domain/model"

// roleThresholds holds the ascending three-threshold boundary set per
// role. Boundaries are inclusive on the lower side: score <= t1 is
// Bronze, <= t2 Amber, <= t3 Ruby, above t3 Gold.
var roleThresholds = map[model.Role][3]float64{
	model.RoleDriver:          {250, 500, 750},
	model.RoleMerchant:        {200, 450, 700},
	model.RoleDeliveryPartner: {220, 480, 740},
}

// defaultThresholds are used for unknown roles so classification stays
// total over all inputs.
var defaultThresholds = roleThresholds[model.RoleDriver]

// TierFor maps a score to a loyalty tier using the role's thresholds.
// It is a pure function, monotonic and total over the real line.
func TierFor(score float64, role model.Role) model.Tier {
	t, ok := roleThresholds[role]
	if !ok {
		t = defaultThresholds
	}
	switch {
	case score <= t[0]:
		return model.Bronze
	case score <= t[1]:
		return model.Amber
	case score <= t[2]:
		return model.Ruby
	default:
		return model.Gold
	}
}

// Thresholds exposes a role's boundary set for diagnostics and tests.
func Thresholds(role model.Role) [3]float64 {
	if t, ok := roleThresholds[role]; ok {
		return t
	}
	return defaultThresholds
}
