// Package supervisor owns the single outbound database connection.
//
// A Supervisor moves between three states:
//
//	disconnected --dial--> connecting --established--> connected
//	      ^                    |                           |
//	      +-------failed-------+                           |
//	      +----------------------lost----------------------+
//
// Connect dials with a bounded retry loop: after a failed attempt the retry
// counter is incremented and the next attempt runs after a fixed delay, until
// the counter reaches the configured maximum. The counter is reset only by a
// successful attempt, so after exhaustion every external trigger makes exactly
// one attempt.
//
// Request paths never wait for a connection. Query fails with ErrNotConnected
// unless the supervisor is connected, and Reconnect runs Connect on a
// background goroutine, coalescing concurrent triggers into one chain:
//
//	sup := supervisor.New(pg.NewConnector(), supervisor.WithLogger(log))
//	sup.Reconnect()
//
//	res, err := sup.Query(ctx, "SELECT now()")
//	if pg.IsConnectionFatal(err) {
//	    sup.ConnectionLost(err)
//	    sup.Reconnect()
//	}
//
// Disconnect is terminal and meant for shutdown.
//
// Statements are executed one at a time because a single connection cannot
// multiplex queries.
package supervisor
