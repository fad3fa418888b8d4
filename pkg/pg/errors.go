package pg

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrFailedToOpenDBConnection = errors.New("failed to open db connection")
	ErrFailedToParseDBConfig    = errors.New("failed to parse db config")
	ErrHealthcheckFailed        = errors.New("healthcheck failed, connection is not available")
	ErrConnectionClosed         = errors.New("database connection is closed")
)

// Server-side codes that terminate the session.
var fatalCodes = map[string]bool{
	"57P01": true, // admin_shutdown
	"57P02": true, // crash_shutdown
	"57P03": true, // cannot_connect_now
}

// IsConnectionFatal reports whether err means the connection itself is unusable,
// as opposed to a failure of one statement.
// A context timeout or cancellation alone is not fatal: when pgx closes the
// connection because of it, Conn.Query already joins ErrConnectionClosed.
func IsConnectionFatal(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrConnectionClosed) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08") || fatalCodes[pgErr.Code]
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) || errors.Is(err, net.ErrClosed) {
		return true
	}

	// context.DeadlineExceeded satisfies net.Error.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// ErrorCode returns the SQLSTATE of err, the errno name for socket failures,
// "08003" for a closed connection, or an empty string.
func ErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET:
			return "ECONNRESET"
		case syscall.ECONNREFUSED:
			return "ECONNREFUSED"
		case syscall.EPIPE:
			return "EPIPE"
		}
	}

	if errors.Is(err, ErrConnectionClosed) {
		return "08003"
	}
	return ""
}

// ErrorMessage returns the server message for a PgError, or err.Error().
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	return err.Error()
}

// ErrorDetail returns the server supplied detail and hint, joined by a newline.
func ErrorDetail(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return ""
	}
	parts := make([]string, 0, 2)
	if pgErr.Detail != "" {
		parts = append(parts, pgErr.Detail)
	}
	if pgErr.Hint != "" {
		parts = append(parts, "HINT: "+pgErr.Hint)
	}
	return strings.Join(parts, "\n")
}
