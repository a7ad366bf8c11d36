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
//  1. defaults (New())
//  2. file (YAML) if BRACKET_CONFIG is set
//  3. env (prefix BRACKET_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("BRACKET_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: BRACKET_ADDR, BRACKET_NARRATIVE_WORKERS, ...
	// Map env keys like BRACKET_NARRATIVE_WORKERS -> narrative_workers.
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("BRACKET_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "bracket_")
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

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	switch {
	case cfg.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.UpstreamBaseURL == "":
		return fmt.Errorf("%w: upstream_base_url must not be empty", ErrInvalidConfig)
	case cfg.NarrativeQueueSize <= 0:
		return fmt.Errorf("%w: narrative_queue_size must be positive", ErrInvalidConfig)
	case cfg.NarrativeWorkers <= 0:
		return fmt.Errorf("%w: narrative_workers must be positive", ErrInvalidConfig)
	case cfg.NarrativeRatePerSecond <= 0:
		return fmt.Errorf("%w: narrative_rate_per_second must be positive", ErrInvalidConfig)
	case cfg.ConfidenceGapFactor < 0:
		return fmt.Errorf("%w: confidence_gap_factor must not be negative", ErrInvalidConfig)
	}
	return nil
}
