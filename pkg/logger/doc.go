// Package logger builds the application's slog.Logger.
//
// Records are written as JSON (or text in development) and enriched with
// request-scoped attributes through ContextExtractor functions. When a
// Sentry DSN is configured, warnings and errors are also forwarded to
// Sentry; errors become Sentry issues.
//
//	log := logger.New(cfg,
//		logger.WithExtractors(
//			logger.StringExtractor("request_id", middlewares.GetRequestID),
//			logger.StringExtractor("visitor_id", visitorID),
//		),
//	)
//	defer logger.Flush(2 * time.Second)
package logger
