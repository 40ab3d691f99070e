// Package config defines service configuration structures and loading hooks.
//
// Coaching constants that product treats as tunable (the optimal launch
// angle window) live here so the aggregator never hides them in literals.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ImportQueueSize bounds the in-memory import job queue.
	ImportQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of parse-and-aggregate workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the import-ID deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the report store.
	ShardCount int `koanf:"shard_count"`

	// OptimalLaunchMinDeg and OptimalLaunchMaxDeg bound the coaching
	// "optimal" launch angle window in degrees, inclusive.
	OptimalLaunchMinDeg float64 `koanf:"optimal_launch_min_deg"`
	OptimalLaunchMaxDeg float64 `koanf:"optimal_launch_max_deg"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		ImportQueueSize:     10_000,
		WorkerCount:         runtime.NumCPU() * 2,
		DedupeSize:          50_000,
		ShardCount:          8,
		OptimalLaunchMinDeg: 10,
		OptimalLaunchMaxDeg: 30,
	}
}
