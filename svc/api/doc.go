// Package api wires the HTTP surface of querygate onto a chi router.
//
// Routes:
//
//	GET  /api/health   health document, always 200
//	POST /api/query    {"text": "...", "params": [...]} executed through the gateway
//	GET  /api/metrics  Prometheus exposition
//	*    /api/*        404 JSON error
//	*    /*            static single page application
//
// Query failures map to responses as follows: an empty statement gives 400
// "Query text is required", a disconnected database gives 503 "Database not
// connected", a malformed body gives 400, and a database error gives 500 with
// the server message and SQLSTATE code. The error detail is included only in
// the development environment.
//
// Every request carries an X-Request-ID and the configured environment in its
// context, and is logged on completion.
package api
