package level

import (
	"time"

	"github.com/merito/gigscore/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithSpamPenalty controls whether the local spam penalty is applied
// inside the level path. The default is off: the spam score is always
// reported, but only deducted when this flag is set.
func WithSpamPenalty(enabled bool) Option {
	return func(e *Engine) {
		e.spamPenalty = enabled
	}
}

// WithSpamThreshold overrides the hybrid score threshold.
func WithSpamThreshold(threshold float64) Option {
	return func(e *Engine) {
		if threshold > 0 && threshold <= 1 {
			e.spamThreshold = threshold
		}
	}
}

// WithPredictTimeout bounds the raw score prediction call.
func WithPredictTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.predictTimeout = d
		}
	}
}

// WithDetectTimeout bounds the spam detection call.
func WithDetectTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.detectTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}
