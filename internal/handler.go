package internal

// Handler declares routes on a router.
//
// Example:
//
//	type Search struct {
//	    registry *widget.Registry
//	}
//
//	func (h *Search) Routes(r tripmux.Router) {
//	    r.POST("/search", h.search)
//	    r.GET("/results", h.results)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers. A non-nil error is
// passed to the app's ErrorHandler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc.
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler renders errors returned from handlers.
type ErrorHandler func(Context, error) error
