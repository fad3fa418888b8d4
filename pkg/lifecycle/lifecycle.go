package lifecycle

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dmitrymomot/querygate/pkg/async"
	"github.com/dmitrymomot/querygate/pkg/httpserver"
	"github.com/dmitrymomot/querygate/pkg/logger"
	"github.com/dmitrymomot/querygate/pkg/metrics"
)

// Supervisor is the part of the connection supervisor the controller drives.
type Supervisor interface {
	Reconnect() *async.Future[bool]
	Disconnect(ctx context.Context) error
}

type Config struct {
	ShutdownGrace time.Duration `env:"SHUTDOWN_GRACE" envDefault:"5s"` // ShutdownGrace bounds the wait for the database to close.
}

// Controller runs the HTTP server and ties the database connection to the process lifetime.
type Controller struct {
	sup        Supervisor
	server     *httpserver.Server
	serverCfg  httpserver.Config
	serverOpts []httpserver.Option
	grace      time.Duration
	logger     *slog.Logger
}

// New creates a Controller. The HTTP server is built immediately so Addr is
// usable once Run has bound the listener.
func New(sup Supervisor, opts ...Option) *Controller {
	if sup == nil {
		panic("lifecycle.New: nil supervisor")
	}

	c := &Controller{
		sup:       sup,
		serverCfg: httpserver.Config{Port: "8080"},
		grace:     5 * time.Second,
		logger:    logger.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	serverOpts := append([]httpserver.Option{
		httpserver.WithLogger(c.logger),
		httpserver.WithStartHook(c.onStart),
	}, c.serverOpts...)
	c.server = httpserver.NewFromConfig(c.serverCfg, serverOpts...)
	return c
}

// Run serves handler until ctx is cancelled or SIGINT/SIGTERM arrives, then
// closes the database connection, waiting at most the shutdown grace.
//
// Shutdown is best-effort: Run returns nil even if closing the connection
// fails or hangs. Only a failure to start the server is returned.
func (c *Controller) Run(ctx context.Context, handler http.Handler) error {
	runErr := c.server.Run(ctx, handler)
	c.closeDatabase()

	if runErr != nil {
		c.logger.Error("http server failed", logger.Component("lifecycle"), logger.Error(runErr))
		return runErr
	}
	return nil
}

// Addr returns the bound listener address.
func (c *Controller) Addr() string {
	return c.server.Addr()
}

// onStart runs once the listener is bound; the connect chain runs in the background.
func (c *Controller) onStart(ctx context.Context, addr net.Addr) {
	c.logger.InfoContext(ctx, "connecting to database",
		logger.Component("lifecycle"),
		slog.String("addr", addr.String()),
	)
	metrics.RecordReconnectTrigger("startup")
	c.sup.Reconnect()
}

func (c *Controller) closeDatabase() {
	start := time.Now()
	f := async.Async(context.Background(), c.sup, func(ctx context.Context, sup Supervisor) (struct{}, error) {
		return struct{}{}, sup.Disconnect(ctx)
	})

	_, err := f.AwaitWithTimeout(c.grace)
	switch {
	case errors.Is(err, async.ErrTimeout):
		c.logger.Warn("database close timed out, exiting anyway",
			logger.Component("lifecycle"),
			logger.Duration(c.grace),
		)
	case err != nil:
		c.logger.Warn("database close failed",
			logger.Component("lifecycle"),
			logger.Error(err),
		)
	default:
		c.logger.Info("shutdown complete",
			logger.Component("lifecycle"),
			logger.Duration(time.Since(start)),
		)
	}
}
