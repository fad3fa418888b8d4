package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when the statement text is empty.
	ErrInvalidRequest = errors.New("query text is required")
	// ErrServiceUnavailable is returned when the database is not connected.
	ErrServiceUnavailable = errors.New("database not connected")
)

// QueryError is a statement failure reported by the database.
type QueryError struct {
	Code    string // SQLSTATE or socket error name, may be empty
	Message string
	Detail  string
	Fatal   bool // Fatal means the connection was dropped and a reconnect was scheduled.
	Err     error
}

func (e *QueryError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (SQLSTATE %s)", e.Message, e.Code)
}

func (e *QueryError) Unwrap() error { return e.Err }
