// Package lifecycle ties the database connection to the life of the process.
//
// Controller.Run binds the HTTP listener, then starts the first connect chain
// in the background, so the service answers requests (with 503 for queries)
// while the database is still unreachable. On SIGINT, SIGTERM or context
// cancellation the server is drained and the supervisor is disconnected,
// waiting at most the shutdown grace. A hung or failing close never turns a
// shutdown into an error.
//
//	ctrl := lifecycle.New(sup,
//	    lifecycle.WithLogger(log),
//	    lifecycle.WithServerConfig(httpCfg),
//	)
//	if err := ctrl.Run(ctx, router); err != nil {
//	    os.Exit(1)
//	}
package lifecycle
