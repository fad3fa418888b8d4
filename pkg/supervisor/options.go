package supervisor

import (
	"log/slog"
	"time"
)

// Option configures the Supervisor.
type Option func(*Supervisor)

// WithLogger supplies an external slog.Logger instance. If nil, a noop logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(s *Supervisor) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxRetries sets how many times a failed connect is retried before the chain stops.
func WithMaxRetries(n int) Option {
	if n < 0 {
		panic("WithMaxRetries: n must be >= 0")
	}
	return func(s *Supervisor) { s.maxRetries = n }
}

// WithRetryDelay sets the fixed wait between connect attempts.
func WithRetryDelay(d time.Duration) Option {
	if d < 0 {
		panic("WithRetryDelay: duration must be >= 0")
	}
	return func(s *Supervisor) { s.retryDelay = d }
}

// WithCloseTimeout bounds how long closing a handle may take.
func WithCloseTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("WithCloseTimeout: duration must be > 0")
	}
	return func(s *Supervisor) { s.closeTimeout = d }
}
