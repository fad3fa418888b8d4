package supervisor

import "time"

type Config struct {
	MaxRetries   int           `env:"DB_MAX_RETRIES" envDefault:"5"`    // MaxRetries is the number of retries after a failed connect before the chain stops.
	RetryDelay   time.Duration `env:"DB_RETRY_DELAY" envDefault:"5s"`   // RetryDelay is the fixed wait between connect attempts.
	CloseTimeout time.Duration `env:"DB_CLOSE_TIMEOUT" envDefault:"5s"` // CloseTimeout bounds closing a stale or active handle.
}

// NewFromConfig creates a Supervisor from the provided Config.
// Only non-zero values from the config are applied; MaxRetries of 0 is a valid setting.
func NewFromConfig(dialer Dialer, cfg Config, opts ...Option) *Supervisor {
	configOpts := make([]Option, 0, 3)

	if cfg.MaxRetries >= 0 {
		configOpts = append(configOpts, WithMaxRetries(cfg.MaxRetries))
	}
	if cfg.RetryDelay > 0 {
		configOpts = append(configOpts, WithRetryDelay(cfg.RetryDelay))
	}
	if cfg.CloseTimeout > 0 {
		configOpts = append(configOpts, WithCloseTimeout(cfg.CloseTimeout))
	}

	configOpts = append(configOpts, opts...)

	return New(dialer, configOpts...)
}
