// Package internal holds the web layer of tripmux. Import the root
// package instead, which re-exports the public API.
//
// # Core types
//
//   - App: router, middleware stack, error handling and server lifecycle
//   - Context: request/response access with htmx-aware rendering, cookies,
//     the anonymous visitor ID and translation helpers
//   - Router, Handler, HandlerFunc, Middleware, ErrorHandler
//   - VisitorManager: the visitor identifier cookie
//   - Extractor: ordered lookups of request values (query, cookie, header)
//
// # Context as context.Context
//
// Context embeds context.Context, so it can be handed to the widget and
// the fare client directly:
//
//	func (h *Search) search(c tripmux.Context) error {
//	    w := middlewares.GetWidget(c)
//	    results, err := w.RunSearch(c, c.Form("origin"), c.Form("destination"), c.Form("departure"))
//	    ...
//	}
//
// # Visitors
//
// With WithVisitors every request belongs to an anonymous visitor. The ID
// is a random UUID in the "__tmv" cookie, signed when a cookie secret is
// configured. It scopes stored preferences and selects the visitor's live
// widget.
//
// # htmx
//
// The ResponseWriter sends every status as 200 to htmx requests, because
// htmx only swaps 2xx responses. Render applies htmx headers and
// out-of-band fragments only when htmx issued the request.
//
// # Runtime
//
// App.Run listens until SIGINT or SIGTERM, runs startup hooks before
// serving and shutdown hooks after draining:
//
//	err := app.Run(":8080", tripmux.ShutdownHook(db.Shutdown(pool)))
package internal
