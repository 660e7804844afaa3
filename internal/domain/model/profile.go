// Package model contains domain types passed between layers.
package model

import "math"

// Role identifies the kind of gig-economy participant being scored.
type Role string

// Known roles. Each role has its own feature schema, tier thresholds
// and boost constants.
const (
	RoleDriver          Role = "driver"
	RoleMerchant        Role = "merchant"
	RoleDeliveryPartner Role = "delivery_partner"
)

// Known reports whether the role has a registered feature schema.
func (r Role) Known() bool {
	switch r {
	case RoleDriver, RoleMerchant, RoleDeliveryPartner:
		return true
	default:
		return false
	}
}

// ActivityLogEntry is one calendar day of the ordered activity log.
// Missing days are not represented; the log carries no gaps.
type ActivityLogEntry struct {
	Active bool `json:"active"`
}

// UserProfile is the scoring input for a single participant.
//
// Features holds every named numeric metric for the user: the role
// schema's canonical features, the six spam-detector fields, the peer
// weighting features used by the credit engine, and the optional
// behavior/loyalty/demand factors. Missing keys default to 0 at each
// consumer, except the extra credit factors which default to 0.5.
type UserProfile struct {
	UserID           string             `json:"user_id"`
	Role             Role               `json:"role"`
	Features         map[string]float64 `json:"features"`
	ActivityLog      []ActivityLogEntry `json:"activity_log"`
	HistoryScores    []float64          `json:"history_scores"`
	MonthActive      int                `json:"month_active"`
	FirstTimeAccount bool               `json:"first_time_account"`
}

// Clone returns a deep copy so stored profiles cannot alias caller state.
func (p UserProfile) Clone() UserProfile {
	out := p
	if p.Features != nil {
		out.Features = make(map[string]float64, len(p.Features))
		for k, v := range p.Features {
			out.Features[k] = v
		}
	}
	if p.ActivityLog != nil {
		out.ActivityLog = append([]ActivityLogEntry(nil), p.ActivityLog...)
	}
	if p.HistoryScores != nil {
		out.HistoryScores = append([]float64(nil), p.HistoryScores...)
	}
	return out
}

// Round2 rounds to two decimal places for external reporting.
// Intermediate pipeline math is never rounded.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
