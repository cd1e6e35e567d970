package middlewares

import (
	"net"

	"github.com/tripmux/tripmux/internal"
	"github.com/tripmux/tripmux/pkg/currency"
)

// ClientIP exposes the client address to the currency suggestion service.
// Run it after the real-IP rewrite so proxies are accounted for.
func ClientIP() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			addr := c.Request().RemoteAddr
			if host, _, err := net.SplitHostPort(addr); err == nil {
				addr = host
			}
			if net.ParseIP(addr) != nil {
				c.Set(currency.ClientIPKey{}, addr)
			}
			return next(c)
		}
	}
}
