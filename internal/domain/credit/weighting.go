package credit

import (
	"fmt"
	"math"

	"github.com/merito/gigscore/internal/domain/model"
)

// peerWeights is the lighter independent weighting used for peer
// ranking. It is deliberately distinct from the level engine's 12-wide
// schema: four coarse features per role over normalized 0-1 values,
// with negative weights on complaint-style signals.
var peerWeights = map[model.Role]struct {
	features []string
	weights  []float64
}{
	model.RoleDriver: {
		features: []string{"rides_completed", "avg_rating", "on_time_ratio", "complaints"},
		weights:  []float64{0.35, 0.30, 0.20, -0.15},
	},
	model.RoleMerchant: {
		features: []string{"transactions", "disputes", "fulfillment_rate", "revenue_growth"},
		weights:  []float64{0.40, -0.20, 0.25, 0.15},
	},
	model.RoleDeliveryPartner: {
		features: []string{"deliveries_completed", "on_time_ratio", "customer_rating", "issues"},
		weights:  []float64{0.30, 0.25, 0.30, -0.15},
	},
}

// roleScore computes the 0-100 peer-weighting score for a profile.
func (e *Engine) roleScore(p model.UserProfile) (float64, error) {
	w, ok := peerWeights[p.Role]
	if !ok {
		return 0, fmt.Errorf("%w: %q", model.ErrInvalidRole, p.Role)
	}
	numerator := 0.0
	denominator := 0.0
	for i, name := range w.features {
		numerator += normalizeFeature(p.Features[name], name) * w.weights[i]
		denominator += math.Abs(w.weights[i])
	}
	if denominator == 0 {
		return neutralRoleScore, nil
	}
	return numerator / denominator * 100, nil
}

// normalizeFeature scales a raw feature onto [0, 1] so features with
// different natural scales stay comparable. Ceilings are fixed
// constants; complaint-style features invert so more complaints score
// lower. Unrecognized names get the neutral 0.5.
func normalizeFeature(value float64, name string) float64 {
	switch name {
	case "rides_completed", "transactions", "deliveries_completed":
		return math.Min(math.Max(0, value)/100, 1)
	case "avg_rating", "customer_rating":
		return math.Max(0, math.Min(5, value)) / 5
	case "on_time_ratio", "fulfillment_rate":
		return math.Max(0, math.Min(1, value))
	case "complaints", "disputes", "issues":
		return 1 - math.Min(math.Max(0, value)/10, 1)
	case "revenue_growth":
		return math.Min(math.Max(0, value)/100, 1)
	default:
		return neutralFactor
	}
}
