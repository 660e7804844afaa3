// Package boost computes onboarding and milestone bonuses: a
// precomputed engagement-weighted lookup plus fixed lifecycle constants
// per role.
package boost

import (
	"math"

	"github.com/merito/gigscore/internal/domain/model"
)

// Lookup resolves the precomputed per-user initial boost. Unknown users
// get 0.
type Lookup interface {
	Boost(userID string) float64
}

// Table scaling constants.
const (
	maxInitialBoost = 20
	errorThreshold  = 5
)

// EngagementRecord is one user's engagement factors, e.g. social,
// financial, gig-worker and job engagement on a 0-100 scale.
type EngagementRecord struct {
	UserID  string
	Factors map[string]float64
}

// Table is an immutable Lookup built once at startup from engagement
// records and company preference weights. Safe for unsynchronized
// concurrent reads.
type Table struct {
	boosts map[string]float64
}

// NewTable blends each record's factors with normalized preference
// weights and scales the result into [0, maxInitialBoost]. When the
// spread of boosts around their mean exceeds the error threshold, the
// whole column is min-max renormalized back onto the boost range.
func NewTable(records []EngagementRecord, preferences map[string]float64) *Table {
	t := &Table{boosts: make(map[string]float64, len(records))}
	if len(records) == 0 {
		return t
	}

	weights := normalizePreferences(preferences)

	ids := make([]string, 0, len(records))
	values := make([]float64, 0, len(records))
	for _, rec := range records {
		score := 0.0
		for factor, weight := range weights {
			score += rec.Factors[factor] * weight
		}
		ids = append(ids, rec.UserID)
		values = append(values, model.Round2(score/100*maxInitialBoost))
	}

	if maxDeviation(values) > errorThreshold {
		values = renormalize(values)
	}

	for i, id := range ids {
		t.boosts[id] = values[i]
	}
	return t
}

// Boost returns the user's precomputed boost, 0 when unknown.
func (t *Table) Boost(userID string) float64 {
	return t.boosts[userID]
}

func normalizePreferences(preferences map[string]float64) map[string]float64 {
	total := 0.0
	for _, v := range preferences {
		total += v
	}
	out := make(map[string]float64, len(preferences))
	if total == 0 {
		return out
	}
	for k, v := range preferences {
		out[k] = v / total
	}
	return out
}

func maxDeviation(values []float64) float64 {
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	dev := 0.0
	for _, v := range values {
		dev = math.Max(dev, math.Abs(v-mean))
	}
	return dev
}

func renormalize(values []float64) []float64 {
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		return values
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = model.Round2((v - lo) / (hi - lo) * maxInitialBoost)
	}
	return out
}
