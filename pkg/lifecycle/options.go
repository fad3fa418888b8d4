package lifecycle

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/querygate/pkg/httpserver"
)

// Option configures the Controller.
type Option func(*Controller)

// WithLogger supplies an external slog.Logger instance.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithShutdownGrace bounds the wait for the database to close on shutdown.
func WithShutdownGrace(d time.Duration) Option {
	if d <= 0 {
		panic("WithShutdownGrace: duration must be > 0")
	}
	return func(c *Controller) { c.grace = d }
}

// WithServerConfig sets the HTTP server config.
func WithServerConfig(cfg httpserver.Config) Option {
	return func(c *Controller) { c.serverCfg = cfg }
}

// WithServerOptions appends options applied to the HTTP server after the config.
func WithServerOptions(opts ...httpserver.Option) Option {
	return func(c *Controller) { c.serverOpts = append(c.serverOpts, opts...) }
}
