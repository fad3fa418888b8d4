package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/querygate/pkg/async"
	"github.com/dmitrymomot/querygate/pkg/logger"
	"github.com/dmitrymomot/querygate/pkg/metrics"
	"github.com/dmitrymomot/querygate/pkg/pg"
	"github.com/dmitrymomot/querygate/pkg/supervisor"
)

// Database is the view of the connection supervisor the gateway needs.
type Database interface {
	pg.Querier
	IsConnected() bool
	ConnectionLost(cause error) bool
	Reconnect() *async.Future[bool]
}

// Gateway executes caller supplied statements on the supervised connection.
type Gateway struct {
	db           Database
	queryTimeout time.Duration
	logValues    bool
	logger       *slog.Logger
}

// New creates a Gateway.
func New(db Database, opts ...Option) *Gateway {
	if db == nil {
		panic("gateway.New: nil database")
	}

	g := &Gateway{
		db:           db,
		queryTimeout: 30 * time.Second,
		logger:       logger.Noop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Execute runs sql with args.
//
// It returns ErrInvalidRequest for blank statements and ErrServiceUnavailable
// when the database is not connected; neither touches connection state.
// Database failures are returned as *QueryError. When the failure means the
// connection is unusable the supervisor is marked disconnected and a reconnect
// is started before Execute returns.
func (g *Gateway) Execute(ctx context.Context, sql string, args []any) (*pg.Result, error) {
	start := time.Now()

	if strings.TrimSpace(sql) == "" {
		metrics.RecordQuery(metrics.OutcomeInvalid, 0)
		return nil, ErrInvalidRequest
	}

	g.logger.InfoContext(ctx, "executing query", g.queryAttrs(sql, args)...)

	if !g.db.IsConnected() {
		metrics.RecordQuery(metrics.OutcomeUnavailable, 0)
		return nil, ErrServiceUnavailable
	}

	qctx, cancel := context.WithTimeout(ctx, g.queryTimeout)
	defer cancel()

	res, err := g.db.Query(qctx, sql, args...)
	if err == nil {
		metrics.RecordQuery(metrics.OutcomeOK, time.Since(start))
		g.logger.DebugContext(ctx, "query completed",
			logger.Component("gateway"),
			logger.Duration(time.Since(start)),
			slog.Int64("row_count", res.RowCount),
		)
		return res, nil
	}

	// The connection dropped between the state check and the dispatch.
	if errors.Is(err, supervisor.ErrNotConnected) {
		metrics.RecordQuery(metrics.OutcomeUnavailable, 0)
		return nil, ErrServiceUnavailable
	}

	qerr := &QueryError{
		Code:    pg.ErrorCode(err),
		Message: pg.ErrorMessage(err),
		Detail:  pg.ErrorDetail(err),
		Fatal:   pg.IsConnectionFatal(err),
		Err:     err,
	}

	if qerr.Fatal {
		metrics.RecordQuery(metrics.OutcomeFatal, time.Since(start))
		g.logger.ErrorContext(ctx, "query failed, connection lost",
			logger.Component("gateway"),
			logger.Duration(time.Since(start)),
			logger.Error(err),
		)
		g.db.ConnectionLost(err)
		metrics.RecordReconnectTrigger("query")
		g.db.Reconnect()
		return nil, qerr
	}

	metrics.RecordQuery(metrics.OutcomeError, time.Since(start))
	g.logger.WarnContext(ctx, "query failed",
		logger.Component("gateway"),
		logger.Duration(time.Since(start)),
		slog.String("code", qerr.Code),
		logger.Error(err),
	)
	return nil, qerr
}

func (g *Gateway) queryAttrs(sql string, args []any) []any {
	attrs := []any{
		logger.Component("gateway"),
		logger.Statement(sql),
		logger.ParamTypes(paramTypes(args)),
	}
	if g.logValues {
		attrs = append(attrs, logger.Params(args))
	}
	return attrs
}

// paramTypes describes each argument by its dynamic type.
func paramTypes(args []any) []string {
	types := make([]string, len(args))
	for i, a := range args {
		if a == nil {
			types[i] = "null"
			continue
		}
		types[i] = fmt.Sprintf("%T", a)
	}
	return types
}
