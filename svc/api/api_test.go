package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/querygate/pkg/async"
	"github.com/dmitrymomot/querygate/pkg/environment"
	"github.com/dmitrymomot/querygate/pkg/gateway"
	"github.com/dmitrymomot/querygate/pkg/health"
	"github.com/dmitrymomot/querygate/pkg/logger"
	"github.com/dmitrymomot/querygate/pkg/pg"
	"github.com/dmitrymomot/querygate/svc/api"
)

type gatewayFunc func(ctx context.Context, sql string, args []any) (*pg.Result, error)

func (f gatewayFunc) Execute(ctx context.Context, sql string, args []any) (*pg.Result, error) {
	return f(ctx, sql, args)
}

type staticReport health.Document

func (s staticReport) Report(context.Context) health.Document { return health.Document(s) }

var disconnectedReport = staticReport{
	Status:    health.StatusHealthy,
	Timestamp: "2026-01-01T00:00:00Z",
	Database:  health.DatabaseStatus{Status: health.DatabaseDisconnected},
}

func newRouter(gw api.Gateway, env environment.Environment) http.Handler {
	static := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("spa:" + r.URL.Path))
	})
	return api.Router(api.RouterOptions{
		Gateway:     gw,
		Health:      disconnectedReport,
		Static:      static,
		Environment: env,
		Logger:      logger.Noop(),
	})
}

func postQuery(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

// healthDB is a connection whose state and probe result are fixed.
type healthDB struct {
	connected bool
	probeErr  error
}

func (d *healthDB) Query(context.Context, string, ...any) (*pg.Result, error) {
	if d.probeErr != nil {
		return nil, d.probeErr
	}
	return &pg.Result{}, nil
}

func (d *healthDB) IsConnected() bool { return d.connected }

func (d *healthDB) ConnectionLost(error) bool { return false }

func (d *healthDB) Reconnect() *async.Future[bool] { return async.Resolved(d.connected, nil) }

func TestHealth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		db       *healthDB
		database map[string]any
	}{
		{
			name:     "connected",
			db:       &healthDB{connected: true},
			database: map[string]any{"status": "connected"},
		},
		{
			name:     "disconnected",
			db:       &healthDB{},
			database: map[string]any{"status": "disconnected"},
		},
		{
			name:     "liveness query failing",
			db:       &healthDB{connected: true, probeErr: &pgconn.PgError{Code: "53300", Message: "too many connections"}},
			database: map[string]any{"status": "error", "error": "too many connections"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := api.Router(api.RouterOptions{
				Gateway:     gatewayFunc(nil),
				Health:      health.New(tt.db, health.WithInfo("version", "test")),
				Static:      http.NotFoundHandler(),
				Environment: environment.Production,
				Logger:      logger.Noop(),
			})

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
			got := decode(t, rec)
			assert.Equal(t, "healthy", got["status"])
			assert.Equal(t, tt.database, got["database"])
			assert.Equal(t, "test", got["environment"].(map[string]any)["version"])
		})
	}
}

func TestQuery(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		var gotSQL string
		var gotArgs []any
		h := newRouter(gatewayFunc(func(_ context.Context, sql string, args []any) (*pg.Result, error) {
			gotSQL, gotArgs = sql, args
			return &pg.Result{
				Rows:     []map[string]any{{"n": 1}},
				RowCount: 1,
				Fields:   []pg.Field{{Name: "n", DataTypeID: 23, DataType: "int4"}},
			}, nil
		}), environment.Production)

		rec := postQuery(h, `{"text":"SELECT $1::int AS n","params":[1]}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "SELECT $1::int AS n", gotSQL)
		assert.Equal(t, []any{float64(1)}, gotArgs)
		assert.JSONEq(t,
			`{"rows":[{"n":1}],"rowCount":1,"fields":[{"name":"n","dataTypeID":23,"dataType":"int4"}]}`,
			rec.Body.String())
	})

	t.Run("missing text", func(t *testing.T) {
		t.Parallel()
		h := newRouter(gatewayFunc(func(context.Context, string, []any) (*pg.Result, error) {
			return nil, gateway.ErrInvalidRequest
		}), environment.Production)

		rec := postQuery(h, `{"params":[]}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":true,"message":"Query text is required"}`, rec.Body.String())
	})

	t.Run("not connected", func(t *testing.T) {
		t.Parallel()
		h := newRouter(gatewayFunc(func(context.Context, string, []any) (*pg.Result, error) {
			return nil, gateway.ErrServiceUnavailable
		}), environment.Production)

		rec := postQuery(h, `{"text":"SELECT 1"}`)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"error":true,"message":"Database not connected"}`, rec.Body.String())
	})

	queryErr := &gateway.QueryError{
		Code:    "42P01",
		Message: `relation "missing" does not exist`,
		Detail:  "HINT: check the schema",
	}

	t.Run("query error in production hides detail", func(t *testing.T) {
		t.Parallel()
		h := newRouter(gatewayFunc(func(context.Context, string, []any) (*pg.Result, error) {
			return nil, queryErr
		}), environment.Production)

		rec := postQuery(h, `{"text":"SELECT * FROM missing"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t,
			`{"error":true,"message":"relation \"missing\" does not exist","code":"42P01"}`,
			rec.Body.String())
	})

	t.Run("query error in development includes detail", func(t *testing.T) {
		t.Parallel()
		h := newRouter(gatewayFunc(func(context.Context, string, []any) (*pg.Result, error) {
			return nil, queryErr
		}), environment.Development)

		rec := postQuery(h, `{"text":"SELECT * FROM missing"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		got := decode(t, rec)
		assert.Equal(t, "42P01", got["code"])
		assert.Equal(t, "HINT: check the schema", got["detail"])
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()
		called := false
		h := newRouter(gatewayFunc(func(context.Context, string, []any) (*pg.Result, error) {
			called = true
			return nil, nil
		}), environment.Production)

		rec := postQuery(h, `{"text":`)

		assert.False(t, called)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, true, decode(t, rec)["error"])
	})
}

func TestRouting(t *testing.T) {
	t.Parallel()
	h := newRouter(gatewayFunc(nil), environment.Production)

	tests := []struct {
		name   string
		method string
		target string
		status int
		body   string
	}{
		{"unknown api route", http.MethodGet, "/api/nope", http.StatusNotFound, `{"error":true,"message":"Not found"}`},
		{"wrong method", http.MethodGet, "/api/query", http.StatusMethodNotAllowed, `{"error":true,"message":"Method not allowed"}`},
		{"static fallback", http.MethodGet, "/dashboard/settings", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))

			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, rec.Body.String())
			} else {
				assert.Equal(t, "spa:/dashboard/settings", rec.Body.String())
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	h := newRouter(gatewayFunc(nil), environment.Production)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "querygate_db_connect_retries")
}
