// Package tripmux serves an embeddable flight-fare search widget.
//
// A visitor opens the widget page, picks a language and a currency (or
// AUTO, resolved from the visitor's network location), chooses a date mode
// and searches the cheapest fares between two places. Changing the
// currency re-runs the last search; place inputs autocomplete with a
// debounce so only the latest keystroke is answered.
//
// # Quick Start
//
//	registry := widget.NewRegistry(widget.Deps{...})
//
//	app := tripmux.New(
//	    tripmux.WithCookieOptions(cookie.WithSecret(secret)),
//	    tripmux.WithVisitors(),
//	    tripmux.WithRealIP(),
//	    tripmux.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Recover(),
//	        middlewares.ClientIP(),
//	        middlewares.Widget(registry),
//	        middlewares.I18n(dict),
//	    ),
//	    tripmux.WithHandlers(handlers.All(renderer)...),
//	    tripmux.WithHealthChecks(),
//	)
//
//	if err := app.Run(":8080", tripmux.Logger(log)); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
//
// # Handlers
//
// Handlers implement [Handler] and declare routes on a [Router]:
//
//	func (h *Search) Routes(r tripmux.Router) {
//	    r.POST("/search", h.search)
//	    r.GET("/results", h.results)
//	}
//
// Handler funcs return errors; the app's [ErrorHandler] renders them.
//
// # Widgets
//
// Every visitor owns one live widget (package widget) holding its
// preferences, date mode, passenger count and search state. A full page
// load opens a fresh widget; htmx partial requests reuse it.
//
// # Shutdown
//
// Run blocks until SIGINT or SIGTERM, drains in-flight requests, stops
// [Lifecycle] components and runs shutdown hooks.
package tripmux
