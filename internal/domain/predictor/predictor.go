// Package predictor defines the contract for the external raw-score
// regression model and provides an in-memory stand-in for it.
package predictor

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

// Default stand-in configuration constants.
const (
	defaultMinLatency    = 5 * time.Millisecond
	defaultMaxLatency    = 25 * time.Millisecond
	defaultRandomSeed    = 42
	defaultRelativeError = 0.12 // training RMSE / max training label
	maxRawScore          = 1000
)

// Estimate is the regression output: an unbounded point estimate scaled
// roughly to [0, 1000] and its error margin (score x relative error).
type Estimate struct {
	Score  float64
	Margin float64
}

// Predictor computes a raw score estimate from a weighted feature
// vector of length 12. Implementations must be safe for concurrent use;
// the engine calls Predict from many in-flight requests without
// external locking.
type Predictor interface {
	Predict(ctx context.Context, vector []float64) (Estimate, error)
}

// Option applies a configuration option to the InMemoryPredictor.
type Option func(*InMemoryPredictor)

// WithLatencyRange sets the simulated inference latency bounds.
func WithLatencyRange(minLatency, maxLatency time.Duration) Option {
	return func(p *InMemoryPredictor) {
		if minLatency > 0 && maxLatency > minLatency {
			p.minLatency = minLatency
			p.maxLatency = maxLatency
		}
	}
}

// WithRelativeError sets the ratio of training RMSE to the maximum
// training label used for the error margin.
func WithRelativeError(rel float64) Option {
	return func(p *InMemoryPredictor) {
		if rel >= 0 {
			p.relativeError = rel
		}
	}
}

// WithCoefficients replaces the per-index regression coefficients.
func WithCoefficients(coeffs []float64) Option {
	return func(p *InMemoryPredictor) {
		if len(coeffs) == vectorSize {
			copy(p.coefficients[:], coeffs)
		}
	}
}

const vectorSize = 12

// defaultCoefficients approximate the trained regressor's response over
// the weighted driver/merchant/delivery schemas: rates and ratings pull
// the estimate up, cancellation/late/complaint style signals pull it
// down, volume features contribute sub-linearly.
var defaultCoefficients = [vectorSize]float64{
	120, 8, 2.2, 150, -180, 60, 4, 3, -160, -12, -40, 0.8,
}

// InMemoryPredictor implements Predictor with a deterministic linear
// model and simulated inference latency. Safe for concurrent use.
type InMemoryPredictor struct {
	coefficients  [vectorSize]float64
	relativeError float64
	minLatency    time.Duration
	maxLatency    time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewInMemoryPredictor creates the stand-in with configuration options.
func NewInMemoryPredictor(opts ...Option) *InMemoryPredictor {
	p := &InMemoryPredictor{
		coefficients:  defaultCoefficients,
		relativeError: defaultRelativeError,
		minLatency:    defaultMinLatency,
		maxLatency:    defaultMaxLatency,
		rng:           rand.New(rand.NewSource(defaultRandomSeed)), //nolint:gosec // deterministic seed for reproducible scoring
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Predict computes the estimate, honoring ctx for cancellation.
func (p *InMemoryPredictor) Predict(ctx context.Context, vector []float64) (Estimate, error) {
	if len(vector) != vectorSize {
		return Estimate{}, fmt.Errorf("%w: got %d, want %d", ErrVectorSize, len(vector), vectorSize)
	}

	p.mu.Lock()
	latency := p.minLatency + time.Duration(p.rng.Int63n(int64(p.maxLatency-p.minLatency)))
	p.mu.Unlock()

	select {
	case <-ctx.Done():
		return Estimate{}, fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
	case <-time.After(latency):
	}

	var score float64
	for i, v := range vector {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		score += v * p.coefficients[i]
	}
	score = math.Max(0, math.Min(maxRawScore, score))

	return Estimate{
		Score:  score,
		Margin: score * p.relativeError,
	}, nil
}
