package health

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"runtime"
	"time"

	"github.com/dmitrymomot/querygate/pkg/async"
	"github.com/dmitrymomot/querygate/pkg/logger"
	"github.com/dmitrymomot/querygate/pkg/metrics"
	"github.com/dmitrymomot/querygate/pkg/pg"
)

// Report statuses.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// Database statuses.
const (
	DatabaseConnected    = "connected"
	DatabaseDisconnected = "disconnected"
	DatabaseError        = "error"
)

// Database is the view of the connection supervisor the reporter needs.
type Database interface {
	pg.Querier
	IsConnected() bool
	ConnectionLost(cause error) bool
	Reconnect() *async.Future[bool]
}

// DatabaseStatus describes the database part of a report.
type DatabaseStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Document is a point-in-time health report.
type Document struct {
	Status      string            `json:"status"`
	Uptime      float64           `json:"uptime"`
	Timestamp   string            `json:"timestamp"`
	Database    DatabaseStatus    `json:"database"`
	Environment map[string]string `json:"environment"`
}

// Reporter composes health documents from supervisor state and a liveness probe.
type Reporter struct {
	db           Database
	probe        func(context.Context) error
	probeTimeout time.Duration
	started      time.Time
	now          func() time.Time
	info         map[string]string
	logger       *slog.Logger
}

// New creates a Reporter. Uptime is measured from the call to New.
func New(db Database, opts ...Option) *Reporter {
	if db == nil {
		panic("health.New: nil database")
	}

	r := &Reporter{
		db:           db,
		probe:        pg.Healthcheck(db),
		probeTimeout: 2 * time.Second,
		now:          time.Now,
		logger:       logger.Noop(),
		info: map[string]string{
			"go":       runtime.Version(),
			"platform": runtime.GOOS + "/" + runtime.GOARCH,
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.started = r.now()
	return r
}

// Report never fails. A probe failure sets the database status to error and
// triggers a background reconnect; a panic inside the reporter yields a
// degraded document.
func (r *Reporter) Report(ctx context.Context) (doc Document) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.ErrorContext(ctx, "health report panicked",
				logger.Component("health"),
				slog.Any("panic", rec),
			)
			doc = r.document(StatusDegraded, DatabaseStatus{
				Status: DatabaseError,
				Error:  fmt.Sprintf("internal error: %v", rec),
			})
		}
	}()

	return r.document(StatusHealthy, r.database(ctx))
}

func (r *Reporter) database(ctx context.Context) DatabaseStatus {
	if !r.db.IsConnected() {
		return DatabaseStatus{Status: DatabaseDisconnected}
	}

	probeCtx, cancel := context.WithTimeout(ctx, r.probeTimeout)
	defer cancel()

	err := r.probe(probeCtx)
	metrics.RecordHealthProbe(err)
	if err == nil {
		return DatabaseStatus{Status: DatabaseConnected}
	}

	r.logger.WarnContext(ctx, "database liveness probe failed",
		logger.Component("health"),
		logger.Error(err),
	)

	if pg.IsConnectionFatal(err) {
		r.db.ConnectionLost(err)
	}
	metrics.RecordReconnectTrigger("health")
	r.db.Reconnect()

	return DatabaseStatus{Status: DatabaseError, Error: pg.ErrorMessage(err)}
}

func (r *Reporter) document(status string, db DatabaseStatus) Document {
	now := r.now()
	return Document{
		Status:      status,
		Uptime:      now.Sub(r.started).Seconds(),
		Timestamp:   now.UTC().Format(time.RFC3339),
		Database:    db,
		Environment: maps.Clone(r.info),
	}
}
