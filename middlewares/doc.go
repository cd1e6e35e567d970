// Package middlewares provides the HTTP middleware of the tripmux widget.
//
// The order matters; a typical chain is
//
//	app := internal.New(
//	    internal.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Recover(),
//	        middlewares.ClientIP(),
//	        middlewares.Timeout(30*time.Second),
//	        middlewares.Widget(registry),
//	        middlewares.I18n(dict),
//	    ),
//	)
//
// # Request ID
//
// RequestID reuses a well-formed X-Request-ID or X-Correlation-ID header
// and otherwise generates a ULID. Pair it with RequestIDExtractor and
// VisitorIDExtractor on the logger to tag every record.
//
// # Recover and Timeout
//
// Recover converts panics into *PanicError and Timeout reports an expired
// deadline as *TimeoutError. Both reach the application error handler,
// which can inspect them with AsPanicError and AsTimeoutError.
//
// # Widget and I18n
//
// Widget resolves the visitor cookie and binds the visitor's live widget,
// opening a fresh one on full page loads. I18n binds the translator that
// matches the visitor's preferred language. Handlers read the widget with
// GetWidget and translate through the context.
package middlewares
