package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/querygate/handler"
	"github.com/dmitrymomot/querygate/pkg/environment"
	"github.com/dmitrymomot/querygate/pkg/health"
	"github.com/dmitrymomot/querygate/pkg/metrics"
	"github.com/dmitrymomot/querygate/pkg/pg"
	"github.com/dmitrymomot/querygate/pkg/requestid"
)

// Gateway executes client statements.
type Gateway interface {
	Execute(ctx context.Context, sql string, args []any) (*pg.Result, error)
}

// HealthReporter produces the health document.
type HealthReporter interface {
	Report(ctx context.Context) health.Document
}

// RouterOptions configures the HTTP surface.
// Gateway and Health are required. Static is served for every path outside /api
// and may be nil, in which case those paths return 404.
type RouterOptions struct {
	Gateway     Gateway
	Health      HealthReporter
	Static      http.Handler
	Environment environment.Environment
	Logger      *slog.Logger
	// DisableMetrics removes the /api/metrics endpoint.
	DisableMetrics bool
}

type api struct {
	gateway      Gateway
	health       HealthReporter
	env          environment.Environment
	logger       *slog.Logger
	errorHandler handler.ErrorHandler[handler.Context]
}

// Router builds the application router.
//
// Example:
//
//	srv.Run(ctx, api.Router(api.RouterOptions{
//		Gateway:     gw,
//		Health:      reporter,
//		Static:      spa.Handler(staticCfg),
//		Environment: env,
//		Logger:      log,
//	}))
func Router(opts RouterOptions) chi.Router {
	if opts.Gateway == nil || opts.Health == nil {
		panic("api.Router: gateway and health reporter are required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	a := &api{
		gateway: opts.Gateway,
		health:  opts.Health,
		env:     opts.Environment,
		logger:  opts.Logger,
		errorHandler: handler.NewErrorHandler(opts.Logger, handler.ErrorHandlerConfig{
			ExposeDetails: true,
		}),
	}

	r := chi.NewRouter()

	r.Use(requestid.Middleware)
	r.Use(environment.Middleware(opts.Environment))
	r.Use(middleware.RealIP)
	r.Use(requestLogger(opts.Logger))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.Wrap(a.handleHealth,
			handler.WithErrorHandler[handler.Context, struct{}](a.errorHandler),
		))
		r.Post("/query", a.queryHandler())
		if !opts.DisableMetrics {
			r.Method(http.MethodGet, "/metrics", metrics.Handler())
		}

		r.NotFound(a.notFound)
		r.MethodNotAllowed(a.methodNotAllowed)
	})

	if opts.Static != nil {
		r.Handle("/*", opts.Static)
	}

	return r
}

func (a *api) handleHealth(ctx handler.Context, _ struct{}) handler.Response {
	return handler.JSON(a.health.Report(ctx))
}

func (a *api) notFound(w http.ResponseWriter, r *http.Request) {
	_ = handler.JSONError(handler.ErrNotFound).Render(w, r)
}

func (a *api) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	_ = handler.JSONError(errMethodNotAllowed).Render(w, r)
}
