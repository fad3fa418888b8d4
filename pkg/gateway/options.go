package gateway

import (
	"log/slog"
	"time"
)

type Config struct {
	LogValues bool `env:"QUERY_LOG_VALUES" envDefault:"false"` // LogValues includes raw parameter values in query logs.
}

// Option configures the Gateway.
type Option func(*Gateway)

// WithLogger supplies an external slog.Logger instance.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithQueryTimeout bounds each statement. The value is fixed for the life of the
// Gateway; unlike connection settings it is not re-read from the environment when
// the supervisor reconnects.
func WithQueryTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("WithQueryTimeout: duration must be > 0")
	}
	return func(g *Gateway) { g.queryTimeout = d }
}

// WithValueLogging enables logging of raw parameter values. Off by default
// because values may carry secrets.
func WithValueLogging(enabled bool) Option {
	return func(g *Gateway) { g.logValues = enabled }
}
