// Package requestid tags every HTTP request with a correlation ID.
//
// Middleware reuses a client supplied X-Request-ID when it is at most 128
// characters of letters, digits, '-' or '_'. Otherwise it generates a UUIDv7.
// The ID is stored in the request context and echoed in the response header.
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
//
// FromContext reads the ID back, and LoggerExtractor plugs it into the logger
// so every record written with the request context carries "request_id":
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
package requestid
