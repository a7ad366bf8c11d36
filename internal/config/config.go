// Package config defines service configuration structures and loading.
//
// Conventions follow the rest of the repo: defaults come from New, layered
// under an optional YAML file and BRACKET_-prefixed environment variables.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// UpstreamBaseURL is the BracketBuilder data API this service
	// bootstraps from and proxies narrative generation through.
	UpstreamBaseURL string `koanf:"upstream_base_url"`

	// PublicBaseURL is the origin used when building share URLs.
	PublicBaseURL string `koanf:"public_base_url"`

	// BootstrapTimeoutMS bounds the three required bootstrap fetches.
	BootstrapTimeoutMS int `koanf:"bootstrap_timeout_ms"`

	// NarrativeTimeoutMS bounds a single upstream narrative call. The
	// upstream proxy has no timeout of its own, so this is the only
	// thing keeping a wedged generation from pinning a worker.
	NarrativeTimeoutMS int `koanf:"narrative_timeout_ms"`

	// NarrativeQueueSize bounds the in-memory narrative job queue.
	NarrativeQueueSize int `koanf:"narrative_queue_size"`

	// NarrativeWorkers sets the number of narrative workers.
	NarrativeWorkers int `koanf:"narrative_workers"`

	// NarrativeRatePerSecond caps total upstream generation calls.
	NarrativeRatePerSecond float64 `koanf:"narrative_rate_per_second"`

	// ConfidenceGapFactor is the score-gap multiplier in the synthesized
	// game confidence formula. The [52,92] clamp is fixed; this is the
	// tuning knob inside it.
	ConfidenceGapFactor float64 `koanf:"confidence_gap_factor"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		UpstreamBaseURL:        "http://localhost:8002",
		PublicBaseURL:          "http://localhost:9080",
		BootstrapTimeoutMS:     30_000,
		NarrativeTimeoutMS:     30_000,
		NarrativeQueueSize:     1024,
		NarrativeWorkers:       4,
		NarrativeRatePerSecond: 2,
		ConfidenceGapFactor:    0.8,
	}
}
