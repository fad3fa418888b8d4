// Package pg opens single PostgreSQL connections with pgx/v5 and shapes their
// results for JSON transport.
//
// The package deliberately works with one *pgx.Conn at a time. Pooling and
// reconnect policy belong to the caller (see pkg/supervisor).
//
// # Configuration
//
// LoadConfig reads the environment on every call. Each connection field has a
// service specific variable and a libpq fallback:
//
//	host      DB_HOST     -> PGHOST     -> localhost
//	database  DB_NAME     -> PGDATABASE -> postgres
//	user      DB_USER     -> PGUSER     -> postgres
//	password  DB_PASSWORD -> PGPASSWORD -> ""
//	port      DB_PORT     -> PGPORT     -> 5432
//
// DB_SSL enables TLS, DB_SSL_VERIFY turns on certificate verification,
// DB_CONNECT_TIMEOUT and DB_QUERY_TIMEOUT bound dials and queries.
//
// # Usage
//
//	connector := pg.NewConnector(pg.WithLogger(log))
//	h, err := connector.Dial(ctx)
//	if err != nil {
//	    return err
//	}
//	defer h.Close(ctx)
//
//	res, err := h.Query(ctx, "SELECT id, email FROM users WHERE id = $1", id)
//
// # Error Handling
//
// IsConnectionFatal separates errors that leave the connection unusable
// (SQLSTATE class 08, server shutdown codes, socket resets, closed handles)
// from ordinary statement failures. ErrorCode, ErrorMessage and ErrorDetail
// extract the fields exposed to API callers.
package pg
