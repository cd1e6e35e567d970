package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Suggester proposes a currency for the current client.
// Implementations never fail: any problem maps to Default.
type Suggester interface {
	Suggest(ctx context.Context) Code
}

// SuggesterFunc adapts a function to Suggester.
type SuggesterFunc func(ctx context.Context) Code

func (f SuggesterFunc) Suggest(ctx context.Context) Code { return f(ctx) }

// Static always suggests the same code.
type Static Code

func (s Static) Suggest(context.Context) Code {
	if c := Code(s); c.Valid() {
		return c
	}
	return Default
}

var errUnsupported = errors.New("currency: unsupported suggestion")

// ClientIPKey is the context key of the visitor IP. Web middleware sets
// it on the request context; WithClientIP does the same for plain contexts.
type ClientIPKey struct{}

// WithClientIP stores the visitor IP for the suggestion request.
// The service derives its guess from it.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ClientIPKey{}, ip)
}

func clientIP(ctx context.Context) string {
	ip, _ := ctx.Value(ClientIPKey{}).(string)
	return ip
}

// Client calls GET {base}/meta/client-context.
type Client struct {
	http    *http.Client
	logger  *slog.Logger
	baseURL string
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default client (5s timeout).
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) { cl.http = c }
}

func WithLogger(l *slog.Logger) ClientOption {
	return func(cl *Client) { cl.logger = l }
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		http:    &http.Client{Timeout: 5 * time.Second},
		logger:  slog.New(slog.DiscardHandler),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Suggest returns the service's suggestion or Default.
func (c *Client) Suggest(ctx context.Context) Code {
	code, err := c.fetch(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "currency suggestion failed, using default",
			slog.String("default", string(Default)),
			slog.Any("error", err),
		)
		return Default
	}
	return code
}

// Healthcheck reports whether the fare API answers. An unsupported
// suggestion still counts as an answer.
func (c *Client) Healthcheck(ctx context.Context) error {
	_, err := c.fetch(ctx)
	if errors.Is(err, errUnsupported) {
		return nil
	}
	return err
}

func (c *Client) fetch(ctx context.Context) (Code, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/meta/client-context", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	if ip := clientIP(ctx); ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("currency: client-context status %d", resp.StatusCode)
	}

	var body struct {
		SuggestedCurrency string `json:"suggestedCurrency"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("currency: decode client-context: %w", err)
	}

	code, ok := ParseCode(body.SuggestedCurrency)
	if !ok {
		return "", fmt.Errorf("%w: %q", errUnsupported, body.SuggestedCurrency)
	}
	return code, nil
}
