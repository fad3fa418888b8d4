package environment_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/querygate/pkg/environment"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    environment.Environment
		devMode bool
	}{
		{"production", environment.Production, false},
		{"prod", environment.Production, false},
		{"stage", environment.Staging, false},
		{"", environment.Development, true},
		{"qa", environment.Development, true},
	}

	for _, tt := range tests {
		t.Run("APP_ENV="+tt.raw, func(t *testing.T) {
			t.Parallel()

			var got environment.Environment
			var dev bool
			h := environment.Middleware(environment.Parse(tt.raw))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = environment.FromContext(r.Context())
				dev = environment.IsDevelopment(r.Context())
			}))

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/query", nil))

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.devMode, dev)
		})
	}

	t.Run("request without middleware", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Empty(t, environment.FromContext(r.Context()))
		assert.False(t, environment.IsDevelopment(r.Context()))
	})
}
