// Package gateway proxies caller supplied SQL to the supervised connection
// and classifies what comes back.
//
// Callers can tell the failure classes apart:
//
//	ErrInvalidRequest      blank statement text
//	ErrServiceUnavailable  no established connection, nothing was sent
//	*QueryError            the database rejected the statement
//
// A QueryError with Fatal set means the connection itself broke. The gateway
// has already marked the supervisor disconnected and started a background
// reconnect by the time Execute returns.
//
// Every call is logged with its statement and parameter types. Raw values are
// logged only with WithValueLogging(true).
package gateway
