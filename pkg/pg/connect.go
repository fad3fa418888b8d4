package pg

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/querygate/pkg/logger"
)

// Handle is one open database connection.
type Handle interface {
	Querier
	Close(ctx context.Context) error
}

// Querier runs a statement and returns its shaped result.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (*Result, error)
}

// Connector opens single connections from a freshly loaded Config.
type Connector struct {
	load   func() (Config, error)
	logger *slog.Logger
}

// ConnectorOption configures a Connector.
type ConnectorOption func(*Connector)

// WithConfigLoader replaces the environment based config loader.
func WithConfigLoader(load func() (Config, error)) ConnectorOption {
	return func(c *Connector) {
		if load != nil {
			c.load = load
		}
	}
}

// WithLogger sets the logger used to report dials.
func WithLogger(l *slog.Logger) ConnectorOption {
	return func(c *Connector) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewConnector creates a Connector. By default the config is read from the
// environment on every Dial.
func NewConnector(opts ...ConnectorOption) *Connector {
	c := &Connector{
		load:   LoadConfig,
		logger: logger.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dial opens a new connection bounded by the configured connect timeout.
// The returned handle is not safe for concurrent use.
func (c *Connector) Dial(ctx context.Context) (Handle, error) {
	cfg, err := c.load()
	if err != nil {
		return nil, err
	}

	connConfig, err := pgx.ParseConfig(cfg.ConnString())
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	connConfig.ConnectTimeout = cfg.ConnectTimeout
	connConfig.RuntimeParams["application_name"] = "querygate"

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	c.logger.DebugContext(ctx, "dialing database",
		logger.Component("pg"),
		slog.String("target", cfg.String()),
	)

	conn, err := pgx.ConnectConfig(ctx, connConfig)
	if err != nil {
		return nil, errors.Join(ErrFailedToOpenDBConnection, err)
	}

	return &Conn{conn: conn}, nil
}

// Conn adapts a *pgx.Conn to Handle.
type Conn struct {
	conn *pgx.Conn
}

// Query executes sql and collects every row.
// Errors observed after the connection was closed are joined with ErrConnectionClosed.
func (c *Conn) Query(ctx context.Context, sql string, args ...any) (*Result, error) {
	rows, err := c.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, c.wrap(err)
	}

	res, err := CollectResult(rows, c.conn.TypeMap())
	if err != nil {
		return nil, c.wrap(err)
	}
	return res, nil
}

// Close closes the underlying connection.
func (c *Conn) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}

func (c *Conn) wrap(err error) error {
	if c.conn.IsClosed() {
		return errors.Join(ErrConnectionClosed, err)
	}
	return err
}
