package supervisor

import "errors"

var (
	// ErrNotConnected is returned by Query when no connection is established.
	ErrNotConnected = errors.New("database not connected")
	// ErrBusy is returned by Query when ctx ends while another statement holds the connection.
	ErrBusy = errors.New("database connection is busy")
	// ErrClosed is returned once Disconnect has been called.
	ErrClosed = errors.New("supervisor is closed")
)
