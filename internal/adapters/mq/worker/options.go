// Package worker processes queued CSV imports.
package worker

import "github.com/swinglabs/fourb/pkg/logger"

// Option applies a configuration option to the ImportWorker.
type Option func(*ImportWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *ImportWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *ImportWorker) {
		if l != nil {
			w.logger = l
		}
	}
}
