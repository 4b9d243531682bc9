// Package config defines service configuration structures and loading hooks.
package config

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/fit"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/risk"
)

// Default process settings.
const (
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultAddr         = ":9080"
	DefaultQueueSize    = 1024
	DefaultCacheSize    = 512
	DefaultMaxBatchSize = 200
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" yaml:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format" yaml:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" yaml:"addr"`

	// WorkerCount sets the number of fit scoring workers.
	WorkerCount int `koanf:"worker_count" yaml:"worker_count"`

	// QueueSize bounds the in-memory fit job queue.
	QueueSize int `koanf:"queue_size" yaml:"queue_size"`

	// CacheSize bounds the number of memoized risk evaluations. 0 disables the cache.
	CacheSize int `koanf:"cache_size" yaml:"cache_size"`

	// MaxBatchSize caps the candidates accepted by one fit request.
	MaxBatchSize int `koanf:"max_batch_size" yaml:"max_batch_size"`

	Risk risk.Config `koanf:"risk" yaml:"risk"`
	Fit  fit.Config  `koanf:"fit" yaml:"fit"`
}

// New creates a Config populated with defaults. Context is accepted first to
// satisfy the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		Addr:         DefaultAddr,
		WorkerCount:  runtime.NumCPU(),
		QueueSize:    DefaultQueueSize,
		CacheSize:    DefaultCacheSize,
		MaxBatchSize: DefaultMaxBatchSize,
		Risk:         risk.DefaultConfig(),
		Fit:          fit.DefaultConfig(),
	}
}

// Validate checks process settings and both engine configs.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be > 0, got %d", ErrInvalidConfig, c.WorkerCount)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be > 0, got %d", ErrInvalidConfig, c.QueueSize)
	case c.CacheSize < 0:
		return fmt.Errorf("%w: cache_size must be >= 0, got %d", ErrInvalidConfig, c.CacheSize)
	case c.MaxBatchSize <= 0:
		return fmt.Errorf("%w: max_batch_size must be > 0, got %d", ErrInvalidConfig, c.MaxBatchSize)
	case c.MaxBatchSize > c.QueueSize:
		return fmt.Errorf("%w: max_batch_size (%d) must not exceed queue_size (%d)", ErrInvalidConfig, c.MaxBatchSize, c.QueueSize)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if err := c.Risk.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Fit.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// YAML renders the config in the file format Load accepts.
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return out, nil
}
