package teamsai

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	validate bool
	cache    *BlockCache
	metrics  *Metrics
	logger   *zap.Logger
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		validate: true,
	}
}

// WithValidation controls whether templates are validated on extraction.
// Code blocks are always re-validated when rendered.
// Default: true
func WithValidation(validate bool) Option {
	return func(c *engineConfig) {
		c.validate = validate
	}
}

// WithBlockCache reuses extracted block sequences for identical template text.
// Default: nil (extract on every call)
func WithBlockCache(cache *BlockCache) Option {
	return func(c *engineConfig) {
		c.cache = cache
	}
}

// WithMetrics records render and function metrics.
// Default: nil (no metrics)
func WithMetrics(metrics *Metrics) Option {
	return func(c *engineConfig) {
		c.metrics = metrics
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}
