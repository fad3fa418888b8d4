package requestid_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/querygate/pkg/requestid"
)

func serve(header string) (ctxID string, rec *httptest.ResponseRecorder) {
	h := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = requestid.FromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/query", nil)
	if header != "" {
		req.Header.Set(requestid.Header, header)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return ctxID, rec
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("reuses valid client id", func(t *testing.T) {
		t.Parallel()
		for _, id := range []string{"abc", "req_2026-01-01", strings.Repeat("a", 128)} {
			got, rec := serve(id)
			assert.Equal(t, id, got)
			assert.Equal(t, id, rec.Header().Get(requestid.Header))
		}
	})

	t.Run("replaces missing or invalid id with uuid v7", func(t *testing.T) {
		t.Parallel()
		for _, id := range []string{"", "has space", "semi;colon", "<script>", strings.Repeat("a", 129)} {
			got, rec := serve(id)
			assert.NotEqual(t, id, got)
			assert.Equal(t, got, rec.Header().Get(requestid.Header))

			parsed, err := uuid.Parse(got)
			require.NoError(t, err, "id %q", got)
			assert.Equal(t, uuid.Version(7), parsed.Version())
		}
	})

	t.Run("ids are unique", func(t *testing.T) {
		t.Parallel()
		a, _ := serve("")
		b, _ := serve("")
		assert.NotEqual(t, a, b)
	})
}

func TestContext(t *testing.T) {
	t.Parallel()
	assert.Empty(t, requestid.FromContext(context.Background()))
	assert.Equal(t, "id-1", requestid.FromContext(requestid.WithContext(context.Background(), "id-1")))
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()
	extract := requestid.LoggerExtractor()

	_, ok := extract(context.Background())
	assert.False(t, ok)

	attr, ok := extract(requestid.WithContext(context.Background(), "id-1"))
	require.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "id-1", attr.Value.String())

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	log.Info("msg", attr)
	assert.Contains(t, buf.String(), "request_id=id-1")
}
