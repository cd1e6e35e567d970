package fares

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tripmux/tripmux/pkg/cache"
	"github.com/tripmux/tripmux/pkg/sanitizer"
)

// maxBody bounds how much of a response is read.
const maxBody = 1 << 20

// Client talks to the fare API rooted at baseURL, e.g. https://api.tripmux.com/api.
type Client struct {
	http     *http.Client
	logger   *slog.Logger
	places   cache.Cache[[]Place]
	baseURL  string
	placeTTL time.Duration
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: 15 * time.Second},
		logger:   slog.New(slog.DiscardHandler),
		baseURL:  strings.TrimRight(baseURL, "/"),
		placeTTL: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.places == nil {
		c.places = cache.NewMemory(
			cache.WithMaxEntries[[]Place](5000),
			cache.WithDefaultTTL[[]Place](c.placeTTL),
		)
	}
	return c
}

// HTTPClient returns the client requests go through, authenticated when
// WithClientCredentials is set.
func (c *Client) HTTPClient() *http.Client { return c.http }

// Close releases the place cache.
func (c *Client) Close() error {
	return c.places.Close()
}

// LookupFares returns the cheapest fares for q. An empty result is an
// empty slice. A non-2xx answer is a *RequestError.
func (c *Client) LookupFares(ctx context.Context, q Query) ([]Fare, error) {
	params := url.Values{}
	params.Set("origin", q.Origin)
	params.Set("destination", q.Destination)
	params.Set("departureAt", q.DepartureAt)
	params.Set("currency", q.Currency)
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Passengers > 0 {
		params.Set("passengers", strconv.Itoa(q.Passengers))
	}

	status, body, err := c.get(ctx, "/flights/cheapest/top", params)
	if err != nil {
		return nil, fmt.Errorf("fares: lookup: %w", err)
	}

	if status == http.StatusNoContent {
		return []Fare{}, nil
	}
	if status < 200 || status > 299 {
		return nil, &RequestError{Status: status, Detail: sanitizer.Detail(string(body))}
	}

	return decodeList[Fare](ctx, c.logger, "fares", body), nil
}

// LookupPlaces returns autocomplete suggestions for term. Failures are
// logged and yield an empty list. Answers are cached per locale and term.
func (c *Client) LookupPlaces(ctx context.Context, term, locale string) []Place {
	term = strings.TrimSpace(term)
	if term == "" {
		return []Place{}
	}

	key := locale + ":" + strings.ToLower(term)
	places, err := cache.GetOrSet(ctx, c.places, key, func(ctx context.Context) ([]Place, time.Duration, error) {
		params := url.Values{}
		params.Set("term", term)
		params.Set("locale", locale)

		status, body, err := c.get(ctx, "/places/autocomplete", params)
		if err != nil {
			return nil, 0, err
		}
		if status < 200 || status > 299 {
			return nil, 0, &RequestError{Status: status}
		}
		return decodeList[Place](ctx, c.logger, "places", body), c.placeTTL, nil
	})
	if err != nil {
		c.logger.WarnContext(ctx, "place lookup failed", slog.String("term", term), slog.Any("error", err))
		return []Place{}
	}
	return places
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// decodeList treats an empty, malformed or non-array body as an empty list.
func decodeList[T any](ctx context.Context, logger *slog.Logger, what string, body []byte) []T {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []T{}
	}
	var out []T
	if err := json.Unmarshal(body, &out); err != nil {
		logger.WarnContext(ctx, "unexpected response body", slog.String("kind", what), slog.Any("error", err))
		return []T{}
	}
	if out == nil {
		return []T{}
	}
	return out
}
