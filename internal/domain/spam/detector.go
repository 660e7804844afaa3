// Package spam defines the hybrid spam-risk contract and the local
// penalty rule applied to flagged accounts.
package spam

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

// RequiredFeatures are the six named fields every detector input must
// carry. Missing fields default to 0.
var RequiredFeatures = []string{
	"review_count",
	"rating_variance",
	"avg_review_length",
	"logins_per_day",
	"std_login_time",
	"account_age_days",
}

// Detector returns a hybrid spam probability in [0, 1]: a weighted
// fusion of a supervised classifier probability and an anomaly-flag
// indicator. The core treats the output as an opaque probability.
// Implementations must be safe for concurrent use.
type Detector interface {
	Score(ctx context.Context, features map[string]float64) (float64, error)
}

// Fusion weights for the hybrid score.
const (
	supervisedWeight = 0.7
	anomalyWeight    = 0.3
)

// Default stand-in configuration constants.
const (
	defaultMinLatency = 2 * time.Millisecond
	defaultMaxLatency = 10 * time.Millisecond
	defaultRandomSeed = 7
)

// Option applies a configuration option to the InMemoryDetector.
type Option func(*InMemoryDetector)

// WithLatencyRange sets the simulated inference latency bounds.
func WithLatencyRange(minLatency, maxLatency time.Duration) Option {
	return func(d *InMemoryDetector) {
		if minLatency > 0 && maxLatency > minLatency {
			d.minLatency = minLatency
			d.maxLatency = maxLatency
		}
	}
}

// WithSupervisedWeights replaces the per-feature logistic weights.
// Keys outside RequiredFeatures are ignored.
func WithSupervisedWeights(weights map[string]float64, bias float64) Option {
	return func(d *InMemoryDetector) {
		d.weights = make(map[string]float64, len(weights))
		for _, name := range RequiredFeatures {
			if w, ok := weights[name]; ok {
				d.weights[name] = w
			}
		}
		d.bias = bias
	}
}

// defaultWeights approximate the trained classifier's response: bursty
// review and login behavior on young accounts pushes the probability
// up, long review text and a stable login time push it down.
var defaultWeights = map[string]float64{
	"review_count":      0.015,
	"rating_variance":   0.9,
	"avg_review_length": -0.01,
	"logins_per_day":    0.06,
	"std_login_time":    -0.25,
	"account_age_days":  -0.004,
}

const defaultBias = -1.2

// InMemoryDetector implements Detector with a deterministic logistic
// proxy fused with a rule-based anomaly indicator. Safe for concurrent
// use.
type InMemoryDetector struct {
	weights    map[string]float64
	bias       float64
	minLatency time.Duration
	maxLatency time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewInMemoryDetector creates the stand-in with configuration options.
func NewInMemoryDetector(opts ...Option) *InMemoryDetector {
	d := &InMemoryDetector{
		weights:    defaultWeights,
		bias:       defaultBias,
		minLatency: defaultMinLatency,
		maxLatency: defaultMaxLatency,
		rng:        rand.New(rand.NewSource(defaultRandomSeed)), //nolint:gosec // deterministic seed for reproducible scoring
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Score computes the hybrid spam probability, honoring ctx.
func (d *InMemoryDetector) Score(ctx context.Context, features map[string]float64) (float64, error) {
	d.mu.Lock()
	latency := d.minLatency + time.Duration(d.rng.Int63n(int64(d.maxLatency-d.minLatency)))
	d.mu.Unlock()

	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
	case <-time.After(latency):
	}

	in := Normalize(features)

	z := d.bias
	for name, w := range d.weights {
		z += w * in[name]
	}
	prob := 1 / (1 + math.Exp(-z))

	anomaly := 0.0
	if isAnomalous(in) {
		anomaly = 1
	}

	return supervisedWeight*prob + anomalyWeight*anomaly, nil
}

// isAnomalous mirrors the isolation-forest flag with fixed bounds on
// the same feature set.
func isAnomalous(in map[string]float64) bool {
	switch {
	case in["logins_per_day"] > 50:
		return true
	case in["review_count"] > 200 && in["account_age_days"] < 30:
		return true
	case in["rating_variance"] > 2.5:
		return true
	default:
		return false
	}
}

// Normalize returns a copy of features containing exactly the required
// fields, defaulting missing ones to 0.
func Normalize(features map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(RequiredFeatures))
	for _, name := range RequiredFeatures {
		out[name] = features[name]
	}
	return out
}
