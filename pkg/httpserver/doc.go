// Package httpserver runs an http.Server with an explicit listener, lifecycle
// hooks and graceful shutdown.
//
// Run binds the listener first and only then fires the start hooks, so a hook
// may rely on the server accepting connections. A bind failure is returned as
// ErrStart and no hook runs. Run then serves until the context is cancelled or
// SIGINT/SIGTERM arrives, drains in-flight requests within the shutdown
// timeout and fires the stop hooks.
//
//	srv := httpserver.NewFromConfig(cfg,
//		httpserver.WithLogger(log),
//		httpserver.WithStartHook(func(ctx context.Context, addr net.Addr) {
//			log.InfoContext(ctx, "ready", slog.String("addr", addr.String()))
//		}),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		return err
//	}
//
// Addr reports the bound address, which is useful with port "0".
//
// Listen and serve failures wrap ErrStart, a second Run wraps both ErrStart
// and ErrAlreadyRunning, and drain failures wrap ErrShutdown.
package httpserver
