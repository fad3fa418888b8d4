package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/querygate/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("db", slog.String("host", "localhost"), slog.Int("port", 5432))
	require.Equal(t, "db", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "host", g[0].Key)
	assert.Equal(t, "port", g[1].Key)
}

func TestErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	empty := logger.Errors(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestRequestID(t *testing.T) {
	attr := logger.RequestID("abc")
	require.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "abc", attr.Value.Any())

	assert.True(t, logger.RequestID(nil).Equal(slog.Attr{}))
}

func TestScalarAttrs(t *testing.T) {
	tests := []struct {
		name string
		attr slog.Attr
		key  string
		want any
	}{
		{"retry count", logger.RetryCount(3), "retry_count", int64(3)},
		{"duration", logger.Duration(time.Second), "duration", time.Second},
		{"component", logger.Component("supervisor"), "component", "supervisor"},
		{"event", logger.Event("connect"), "event", "connect"},
		{"state", logger.State("connected"), "state", "connected"},
		{"statement", logger.Statement("SELECT 1"), "statement", "SELECT 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.want, tt.attr.Value.Any())
		})
	}
}

func TestParamAttrs(t *testing.T) {
	shape := logger.ParamTypes([]string{"string", "number"})
	assert.Equal(t, "param_types", shape.Key)
	assert.Equal(t, []string{"string", "number"}, shape.Value.Any())

	values := logger.Params([]any{"a", 1.0})
	assert.Equal(t, "params", values.Key)
	assert.Equal(t, []any{"a", 1.0}, values.Value.Any())
}
