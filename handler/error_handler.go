package handler

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/querygate/pkg/logger"
	"github.com/dmitrymomot/querygate/pkg/requestid"
)

// ErrorHandlerConfig configures the error handler built by NewErrorHandler.
type ErrorHandlerConfig struct {
	// ExposeDetails keeps Code and Detail of *HTTPError values in the body.
	// When false only the message is rendered.
	ExposeDetails bool
}

// determineLogLevel maps HTTP status codes to appropriate log levels
func determineLogLevel(statusCode int) slog.Level {
	if statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// NewErrorHandler creates an error handler that logs the failure with request
// context and renders it as a JSON error body.
// Configure this once in main.go and pass to all routes.
func NewErrorHandler(log *slog.Logger, cfg ErrorHandlerConfig) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx Context, err error) {
		r := ctx.Request()
		httpErr := classifyError(err)

		log.LogAttrs(r.Context(), determineLogLevel(httpErr.Status), "request error",
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.Error(err),
			slog.Int("status_code", httpErr.Status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		if !cfg.ExposeDetails {
			httpErr = &HTTPError{Status: httpErr.Status, Message: httpErr.Message, Err: httpErr.Err}
		}

		if renderErr := JSONError(httpErr).Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.Error("failed to render error response",
				logger.Error(renderErr),
				logger.Event("render_error"),
			)
		}
	}
}
