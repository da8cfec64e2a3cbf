// Package config defines service configuration and loading.
//
// Conventions:
// - Defaults come from New; Load layers an optional YAML file and env vars
//   on top.
// - External errors are wrapped via this package's sentinels.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory derivation job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of derivation workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the submission idempotency cache.
	DedupeSize int `koanf:"dedupe_size"`

	// StoreShardCount configures the number of shards in the insight store.
	StoreShardCount int `koanf:"store_shard_count"`

	// StoreMaxRecords caps the number of insight records kept per shard.
	StoreMaxRecords int `koanf:"store_max_records"`

	// MaxKeyAspects caps the ranked key-aspects view.
	MaxKeyAspects int `koanf:"max_key_aspects"`

	// RulershipMode selects the default rulership regime: classical or modern.
	// Callers may override it per request.
	RulershipMode string `koanf:"rulership_mode"`

	// EphemerisBaseURL is the external chart-computation service endpoint.
	EphemerisBaseURL string `koanf:"ephemeris_base_url"`

	// EphemerisTimeoutMS bounds a single computation-service call.
	EphemerisTimeoutMS int `koanf:"ephemeris_timeout_ms"`
}

// New returns the default configuration.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		QueueSize:          10_000,
		WorkerCount:        runtime.NumCPU() * 2,
		DedupeSize:         100_000,
		StoreShardCount:    8,
		StoreMaxRecords:    5_000,
		MaxKeyAspects:      6,
		RulershipMode:      "classical",
		EphemerisBaseURL:   "http://localhost:9100",
		EphemerisTimeoutMS: 5_000,
	}
}
