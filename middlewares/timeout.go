package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/tripmux/tripmux/internal"
)

// DefaultTimeout bounds a request when no timeout is given.
const DefaultTimeout = 30 * time.Second

// Timeout attaches a deadline to the request context. Handlers run on the
// request goroutine and observe the deadline through c; when it expires
// before anything was written the request fails with *TimeoutError.
func Timeout(timeout time.Duration) internal.Middleware {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			parent := c.Context()
			ctx, cancel := context.WithTimeout(parent, timeout)
			defer cancel()

			c.SetContext(ctx)
			err := next(c)
			c.SetContext(parent)

			if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Written() {
				path := c.Request().URL.Path
				c.LogWarn("request timeout", "path", path, "timeout", timeout.String())
				return &TimeoutError{Path: path, Duration: timeout}
			}
			return err
		}
	}
}
