package credit

import "github.com/merito/gigscore/pkg/logger"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithDeltaBase sets the base loyalty delta before the tier multiplier.
func WithDeltaBase(v float64) Option {
	return func(e *Engine) {
		if v >= 0 {
			e.deltaBase = v
		}
	}
}

// WithLambda sets the balance between individual performance and the
// peer-ranked fairness score. Must lie in [0, 1].
func WithLambda(v float64) Option {
	return func(e *Engine) {
		if v >= 0 && v <= 1 {
			e.lambdaR = v
		}
	}
}

// WithDisparity sets the population-level acceptance rates and the
// correction strength eta.
func WithDisparity(acceptRate, targetAccept, eta float64) Option {
	return func(e *Engine) {
		if acceptRate >= 0 && acceptRate <= 1 {
			e.acceptRate = acceptRate
		}
		if targetAccept >= 0 && targetAccept <= 1 {
			e.targetAccept = targetAccept
		}
		if eta >= 0 {
			e.eta = eta
		}
	}
}

// WithReportScale fixes the external reporting scale.
func WithReportScale(v float64) Option {
	return func(e *Engine) {
		if v > 0 {
			e.reportScale = v
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
