package fares

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/tripmux/tripmux/pkg/cache"
)

// Option configures Client.
type Option func(*Client)

// WithHTTPClient replaces the default client (15s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithClientCredentials authenticates every request with an OAuth2
// client-credentials token from tokenURL. The token is cached and
// refreshed by the oauth2 transport.
func WithClientCredentials(tokenURL, clientID, clientSecret string, scopes ...string) Option {
	return func(cl *Client) {
		cfg := clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			Scopes:       scopes,
		}
		timeout := cl.http.Timeout
		cl.http = cfg.Client(context.Background())
		cl.http.Timeout = timeout
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// WithPlaceCache replaces the in-memory place cache.
func WithPlaceCache(c cache.Cache[[]Place], ttl time.Duration) Option {
	return func(cl *Client) {
		cl.places = c
		cl.placeTTL = ttl
	}
}
