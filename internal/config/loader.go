package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if GIGSCORE_CONFIG is set
//  3. env (prefix GIGSCORE_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("GIGSCORE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: GIGSCORE_ADDR, GIGSCORE_QUEUE_SIZE, ...
	// Map env keys like GIGSCORE_QUEUE_SIZE -> queue_size (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("GIGSCORE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "gigscore_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.SpamThreshold <= 0 || c.SpamThreshold > 1:
		return fmt.Errorf("%w: spam_threshold must be in (0, 1]", ErrInvalidConfig)
	case c.LambdaR < 0 || c.LambdaR > 1:
		return fmt.Errorf("%w: lambda_r must be in [0, 1]", ErrInvalidConfig)
	case c.ReportScale <= 0:
		return fmt.Errorf("%w: report_scale must be positive", ErrInvalidConfig)
	case c.PredictorLatencyMinMS < 0 || c.PredictorLatencyMaxMS < c.PredictorLatencyMinMS:
		return fmt.Errorf("%w: predictor latency bounds are inverted", ErrInvalidConfig)
	}
	return nil
}
