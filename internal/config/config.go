// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory rescore queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of rescore workers.
	WorkerCount int `koanf:"worker_count"`

	// InflightSize bounds the in-flight rescore tracker.
	InflightSize int `koanf:"inflight_size"`

	// ShardCount configures the number of shards in the profile store.
	ShardCount int `koanf:"shard_count"`

	// PopulationCap bounds the per-role raw score population kept for
	// percentile ranking.
	PopulationCap int `koanf:"population_cap"`

	// PredictTimeoutMS and DetectTimeoutMS cap the per-call deadlines
	// for the prediction and spam detection collaborators.
	PredictTimeoutMS int `koanf:"predict_timeout_ms"`
	DetectTimeoutMS  int `koanf:"detect_timeout_ms"`

	// PredictorLatencyMinMS and PredictorLatencyMaxMS simulate external
	// ML latency bounds.
	PredictorLatencyMinMS int `koanf:"predictor_latency_min_ms"`
	PredictorLatencyMaxMS int `koanf:"predictor_latency_max_ms"`

	// PredictorRelativeError is the reported model error margin ratio.
	PredictorRelativeError float64 `koanf:"predictor_relative_error"`

	// SpamPenaltyEnabled turns hybrid spam scores into direct score
	// deductions instead of report-only flags.
	SpamPenaltyEnabled bool `koanf:"spam_penalty_enabled"`

	// SpamThreshold is the hybrid spam score above which the penalty
	// applies.
	SpamThreshold float64 `koanf:"spam_threshold"`

	// ReportScale multiplies the final credit score for external
	// reporting.
	ReportScale float64 `koanf:"report_scale"`

	// DeltaBase is the tier-scaled delta adjustment base.
	DeltaBase float64 `koanf:"delta_base"`

	// LambdaR weighs the role component against the fairness score.
	LambdaR float64 `koanf:"lambda_r"`

	// AcceptRate, TargetAccept and Eta drive the fairness adjustment.
	AcceptRate   float64 `koanf:"accept_rate"`
	TargetAccept float64 `koanf:"target_accept"`
	Eta          float64 `koanf:"eta"`
}

// New creates a Config using provided options. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use (e.g.,
// loading from env/files) and is currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		QueueSize:              10_000,
		WorkerCount:            runtime.NumCPU(),
		InflightSize:           50_000,
		ShardCount:             8,
		PopulationCap:          10_000,
		PredictTimeoutMS:       2000,
		DetectTimeoutMS:        1000,
		PredictorLatencyMinMS:  5,
		PredictorLatencyMaxMS:  25,
		PredictorRelativeError: 0.12,
		SpamPenaltyEnabled:     false,
		SpamThreshold:          0.7,
		ReportScale:            10,
		DeltaBase:              2.0,
		LambdaR:                0.7,
		AcceptRate:             0.6,
		TargetAccept:           0.7,
		Eta:                    0.1,
	}
	return c
}
