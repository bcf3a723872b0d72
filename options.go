package reposcope

import (
	"log/slog"

	"github.com/reposcope/reposcope/internal/config"
)

// clientConfig holds configuration for Client construction.
// Use newClientConfig() to create with defaults from internal/config.
type clientConfig struct {
	contextLines int
	logger       *slog.Logger
}

// newClientConfig creates a clientConfig with defaults from internal/config.
func newClientConfig() *clientConfig {
	return &clientConfig{
		contextLines: config.DefaultContextLines,
		logger:       config.DefaultLogger(),
	}
}

// Option configures a Client.
type Option func(*clientConfig)

// WithLogger sets the logger used by the client and its session.
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithContextLines sets the number of unchanged lines shown around each
// diff hunk.
func WithContextLines(n int) Option {
	return func(c *clientConfig) {
		if n >= 0 {
			c.contextLines = n
		}
	}
}
