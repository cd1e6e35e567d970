package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tripmux/tripmux/internal"
	"github.com/tripmux/tripmux/middlewares"
	"github.com/tripmux/tripmux/pkg/currency"
)

func TestClientIP(t *testing.T) {
	t.Parallel()

	echo := func(c internal.Context) error {
		ip, _ := c.Value(currency.ClientIPKey{}).(string)
		return c.String(http.StatusOK, ip)
	}

	tests := []struct {
		name   string
		remote string
		xff    string
		want   string
	}{
		{name: "host and port", remote: "203.0.113.7:5123", want: "203.0.113.7"},
		{name: "ipv6", remote: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "garbage", remote: "not-an-ip", want: ""},
		{name: "forwarded", remote: "10.0.0.1:80", xff: "198.51.100.9", want: "198.51.100.9"},
	}

	app := newApp(t, []internal.Middleware{middlewares.ClientIP()}, echo, internal.WithRealIP())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			rec := serve(app, req)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}
