// Package worker runs the narrative generation workers.
package worker

import "time"

// Option applies a configuration option to a Worker.
type Option func(*Worker)

// WithName sets the worker's name for logging.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithGenerateTimeout bounds a single upstream narrative call.
func WithGenerateTimeout(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.timeout = d
		}
	}
}
