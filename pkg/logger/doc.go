// Package logger builds *slog.Logger values for querygate and defines the
// attribute helpers used across the code base.
//
// New takes functional options. WithEnvironment picks the preset for the
// deployment (text at debug level in development, JSON at info level in
// staging and production) and tags every record with service and env.
// WithLevelName applies a LOG_LEVEL override on top of the preset.
// WithContextExtractors registers callbacks that add request scoped values,
// such as the request ID, whenever a *Context logging method is used:
//
//	log := logger.New(
//		logger.WithEnvironment(env, "querygate"),
//		logger.WithLevelName(os.Getenv("LOG_LEVEL")),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//
//	log.InfoContext(ctx, "query executed",
//		logger.Statement(sql),
//		logger.Duration(time.Since(start)),
//	)
//
// Error and Errors return an empty attribute for nil errors, so they can be
// passed unconditionally. Noop returns a logger that discards everything;
// components fall back to it when no logger is supplied.
package logger
