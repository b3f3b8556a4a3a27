package gopkgres

import (
	"github.com/rs/zerolog"
)

// Option configures an Index under construction.
type Option func(*indexConfig)

// indexConfig holds index construction configuration.
type indexConfig struct {
	dists []*Distribution

	// logger receives debug events from Add/BestMatch/Resolve/Scan.
	// Defaults to a no-op logger so the library is silent unless the
	// caller opts in.
	logger zerolog.Logger
}

// WithDistributions seeds the index with an initial set of distributions,
// in order.
func WithDistributions(dists ...*Distribution) Option {
	return func(c *indexConfig) {
		c.dists = append(c.dists, dists...)
	}
}

// WithLogger attaches a structured logger for debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *indexConfig) {
		c.logger = logger
	}
}
