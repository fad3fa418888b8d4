package health

import (
	"context"
	"log/slog"
	"time"
)

type Config struct {
	ProbeTimeout time.Duration `env:"HEALTH_PROBE_TIMEOUT" envDefault:"2s"` // ProbeTimeout bounds the liveness query.
}

// Option configures the Reporter.
type Option func(*Reporter)

// WithLogger supplies an external slog.Logger instance.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reporter) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithProbeTimeout bounds the liveness query.
func WithProbeTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("WithProbeTimeout: duration must be > 0")
	}
	return func(r *Reporter) { r.probeTimeout = d }
}

// WithProbe replaces the default SELECT 1 probe.
func WithProbe(probe func(context.Context) error) Option {
	if probe == nil {
		panic("WithProbe: nil probe")
	}
	return func(r *Reporter) { r.probe = probe }
}

// WithInfo adds informational key/value pairs to the environment section.
func WithInfo(key, value string) Option {
	return func(r *Reporter) {
		if value != "" {
			r.info[key] = value
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		if now != nil {
			r.now = now
		}
	}
}
