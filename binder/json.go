package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// DefaultMaxBodySize bounds the request body read by BindJSON.
const DefaultMaxBodySize int64 = 1 << 20

// JSONOption configures BindJSON.
type JSONOption func(*jsonConfig)

type jsonConfig struct {
	strict  bool
	maxSize int64
}

// WithStrictFields rejects bodies carrying fields the target does not declare.
func WithStrictFields() JSONOption {
	return func(c *jsonConfig) {
		c.strict = true
	}
}

// WithMaxBodySize overrides DefaultMaxBodySize. Non-positive values are ignored.
func WithMaxBodySize(n int64) JSONOption {
	return func(c *jsonConfig) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// BindJSON creates a binder that decodes an application/json body into v.
//
// Example:
//
//	r.Post("/api/query", handler.Wrap(query,
//		handler.WithBinder[handler.Context, QueryRequest](binder.BindJSON()),
//	))
func BindJSON(opts ...JSONOption) func(r *http.Request, v any) error {
	cfg := jsonConfig{maxSize: DefaultMaxBodySize}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(r *http.Request, v any) error {
		contentType := r.Header.Get("Content-Type")
		if contentType == "" {
			return fmt.Errorf("%w: expected application/json", ErrMissingContentType)
		}

		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnsupportedMediaType, err)
		}
		if mediaType != "application/json" {
			return fmt.Errorf("%w: got %s, expected application/json", ErrUnsupportedMediaType, mediaType)
		}

		decoder := json.NewDecoder(io.LimitReader(r.Body, cfg.maxSize+1))
		if cfg.strict {
			decoder.DisallowUnknownFields()
		}

		if err := decoder.Decode(v); err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: empty body", ErrInvalidJSON)
			}
			return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}

		if decoder.InputOffset() > cfg.maxSize {
			return fmt.Errorf("%w: body exceeds %d bytes", ErrInvalidJSON, cfg.maxSize)
		}

		var extra json.RawMessage
		if err := decoder.Decode(&extra); !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: unexpected data after JSON object", ErrInvalidJSON)
		}

		return nil
	}
}
