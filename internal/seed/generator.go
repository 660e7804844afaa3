package seed

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/merito/gigscore/internal/domain/model"
)

const (
	maxHistoryLength = 6
	maxActivityDays  = 30
	activeDayRate    = 0.8
)

var roles = []model.Role{
	model.RoleDriver,
	model.RoleMerchant,
	model.RoleDeliveryPartner,
}

// profile is the request shape for POST /profiles.
type profile struct {
	UserID           string                   `json:"user_id"`
	Role             string                   `json:"role"`
	Features         map[string]float64       `json:"features"`
	ActivityLog      []model.ActivityLogEntry `json:"activity_log"`
	HistoryScores    []float64                `json:"history_scores"`
	MonthActive      int                      `json:"month_active"`
	FirstTimeAccount bool                     `json:"first_time_account"`
}

func generateProfiles(rng *rand.Rand, n int) []profile {
	profiles := make([]profile, 0, n)
	for i := 0; i < n; i++ {
		role := roles[i%len(roles)]
		profiles = append(profiles, generateProfile(rng, role))
	}
	return profiles
}

func generateProfile(rng *rand.Rand, role model.Role) profile {
	monthActive := 1 + rng.Intn(24)
	firstTime := monthActive == 1 && rng.Float64() < 0.5

	history := make([]float64, 0, maxHistoryLength)
	score := 100 + rng.Float64()*200
	for i := 0; i < rng.Intn(maxHistoryLength); i++ {
		// Mostly upward drift with occasional dips, so trend penalties
		// show up in a realistic minority of profiles.
		score += rng.Float64()*60 - 15
		if score < 0 {
			score = 0
		}
		history = append(history, score)
	}

	days := rng.Intn(maxActivityDays)
	log := make([]model.ActivityLogEntry, 0, days)
	for i := 0; i < days; i++ {
		log = append(log, model.ActivityLogEntry{Active: rng.Float64() < activeDayRate})
	}

	return profile{
		UserID:           uuid.NewString(),
		Role:             string(role),
		Features:         generateFeatures(rng, role),
		ActivityLog:      log,
		HistoryScores:    history,
		MonthActive:      monthActive,
		FirstTimeAccount: firstTime,
	}
}

func generateFeatures(rng *rand.Rand, role model.Role) map[string]float64 {
	f := map[string]float64{
		"login_rate":  rng.Float64(),
		"streak_days": float64(rng.Intn(28)),
		"rating":      3 + rng.Float64()*2,

		// Spam detector inputs.
		"review_count":      float64(rng.Intn(250)),
		"rating_variance":   rng.Float64() * 3,
		"avg_review_length": 20 + rng.Float64()*200,
		"logins_per_day":    rng.Float64() * 12,
		"std_login_time":    rng.Float64() * 6,
		"account_age_days":  float64(30 * (1 + rng.Intn(24))),

		// Credit extra factors.
		"behavior_score": rng.Float64(),
		"loyalty_score":  rng.Float64(),
		"demand_score":   rng.Float64(),
	}

	switch role {
	case model.RoleDriver:
		f["rides_30d"] = float64(rng.Intn(180))
		f["on_time_rate"] = 0.6 + rng.Float64()*0.4
		f["cancellation_rate"] = rng.Float64() * 0.2
		f["avg_ride_distance"] = 2 + rng.Float64()*15
		f["peak_hour_rides"] = float64(rng.Intn(60))
		f["late_pickup_rate"] = rng.Float64() * 0.3
		f["customer_complaints"] = float64(rng.Intn(8))
		f["ratings_std"] = rng.Float64()
		f["total_hours_worked"] = 20 + rng.Float64()*160
		f["rides_completed"] = float64(rng.Intn(180))
		f["avg_rating"] = 3 + rng.Float64()*2
		f["on_time_ratio"] = 0.6 + rng.Float64()*0.4
		f["complaints"] = float64(rng.Intn(8))
	case model.RoleMerchant:
		f["sales_30d"] = float64(rng.Intn(220))
		f["order_fulfillment_rate"] = 0.7 + rng.Float64()*0.3
		f["return_rate"] = rng.Float64() * 0.15
		f["avg_order_value"] = 5 + rng.Float64()*80
		f["peak_hour_sales"] = float64(rng.Intn(70))
		f["complaints_received"] = float64(rng.Intn(6))
		f["new_customers_acquired"] = float64(rng.Intn(40))
		f["repeat_customer_rate"] = rng.Float64()
		f["total_hours_operated"] = 100 + rng.Float64()*200
		f["transactions"] = float64(rng.Intn(220))
		f["disputes"] = float64(rng.Intn(10))
		f["fulfillment_rate"] = 0.7 + rng.Float64()*0.3
		f["revenue_growth"] = rng.Float64() * 100
	case model.RoleDeliveryPartner:
		f["deliveries_30d"] = float64(rng.Intn(200))
		f["on_time_delivery_rate"] = 0.6 + rng.Float64()*0.4
		f["cancellation_rate"] = rng.Float64() * 0.2
		f["avg_delivery_distance"] = 1 + rng.Float64()*10
		f["peak_hour_deliveries"] = float64(rng.Intn(80))
		f["late_delivery_rate"] = rng.Float64() * 0.3
		f["customer_complaints"] = float64(rng.Intn(8))
		f["ratings_std"] = rng.Float64()
		f["total_hours_worked"] = 20 + rng.Float64()*160
		f["deliveries_completed"] = float64(rng.Intn(200))
		f["on_time_ratio"] = 0.6 + rng.Float64()*0.4
		f["customer_rating"] = 3 + rng.Float64()*2
		f["issues"] = float64(rng.Intn(8))
	}

	return f
}
