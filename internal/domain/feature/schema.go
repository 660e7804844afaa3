// Package feature selects and weights role-specific feature vectors.
//
// Each known role has a fixed ordered schema of 12 canonical feature
// names and a matching weight vector. The registry replaces per-call
// role branching: handlers resolve the schema once per request.
package feature

import "github.com/merito/gigscore/internal/domain/model"

// VectorSize is the fixed length of every weighted feature vector
// handed to the raw score predictor.
const VectorSize = 12

// Schema is a role's ordered feature list with importance weights.
// Weights lie in [0.6, 1.0].
type Schema struct {
	Names   [VectorSize]string
	Weights [VectorSize]float64
}

var registry = map[model.Role]Schema{
	model.RoleDriver: {
		Names: [VectorSize]string{
			"login_rate", "streak_days", "rides_30d", "on_time_rate",
			"cancellation_rate", "rating", "avg_ride_distance", "peak_hour_rides",
			"late_pickup_rate", "customer_complaints", "ratings_std", "total_hours_worked",
		},
		Weights: [VectorSize]float64{1.0, 0.8, 1.0, 1.0, 1.0, 0.9, 0.8, 0.7, 1.0, 0.9, 0.8, 0.6},
	},
	model.RoleMerchant: {
		Names: [VectorSize]string{
			"login_rate", "streak_days", "sales_30d", "order_fulfillment_rate",
			"return_rate", "rating", "avg_order_value", "peak_hour_sales",
			"complaints_received", "new_customers_acquired", "repeat_customer_rate", "total_hours_operated",
		},
		Weights: [VectorSize]float64{1.0, 0.8, 1.0, 1.0, 0.9, 0.9, 0.8, 0.7, 1.0, 0.9, 0.8, 0.6},
	},
	model.RoleDeliveryPartner: {
		Names: [VectorSize]string{
			"login_rate", "streak_days", "deliveries_30d", "on_time_delivery_rate",
			"cancellation_rate", "rating", "avg_delivery_distance", "peak_hour_deliveries",
			"late_delivery_rate", "customer_complaints", "ratings_std", "total_hours_worked",
		},
		Weights: [VectorSize]float64{1.0, 0.8, 1.0, 1.0, 0.9, 0.9, 0.8, 0.7, 1.0, 0.9, 0.8, 0.6},
	},
}

// SchemaFor resolves the schema for a role. The second return is false
// for unknown roles, in which case callers fall back to Build's
// lower-fidelity raw-map path.
func SchemaFor(role model.Role) (Schema, bool) {
	s, ok := registry[role]
	return s, ok
}

// MilestoneFeature names the role's 30-day volume feature used for the
// milestone boost.
func MilestoneFeature(role model.Role) string {
	switch role {
	case model.RoleDriver:
		return "rides_30d"
	case model.RoleMerchant:
		return "sales_30d"
	case model.RoleDeliveryPartner:
		return "deliveries_30d"
	default:
		return ""
	}
}
