// Package scryfall is the remote fetch gateway to the Scryfall card API.
// Each call performs a single rate-limited GET; retry decisions belong to
// the caller.
package scryfall

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/ramonehamilton/MTG-Collection/internal/models"
)

const (
	DefaultBaseURL   = "https://api.scryfall.com"
	DefaultUserAgent = "MTG-Collection/1.0"
	rateLimitDelay   = 100 * time.Millisecond // 10 req/sec
	requestTimeout   = 30 * time.Second
)

// Client represents a Scryfall API client with rate limiting.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	userAgent   string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithRateLimit sets the minimum delay between requests.
func WithRateLimit(every time.Duration) Option {
	return func(c *Client) { c.rateLimiter = rate.NewLimiter(rate.Every(every), 1) }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a new Scryfall API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		baseURL:     DefaultBaseURL,
		userAgent:   DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchCards runs a search query and returns one page of printings,
// newest first.
func (c *Client) SearchCards(ctx context.Context, query string, page int) (*SearchResult, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("unique", "prints")
	params.Set("order", "released")
	params.Set("dir", "desc")
	params.Set("page", strconv.Itoa(page))

	var result SearchResult
	if err := c.doRequest(ctx, c.baseURL+"/cards/search?"+params.Encode(), &result); err != nil {
		// Scryfall answers 404 when a query matches nothing.
		if IsNotFound(err) {
			return &SearchResult{Object: "list"}, nil
		}
		return nil, fmt.Errorf("failed to search cards with query '%s': %w", query, err)
	}

	return &result, nil
}

// GetCardNamed looks up a card by exact name, optionally restricted to a set.
func (c *Client) GetCardNamed(ctx context.Context, name, setCode string) (*models.Card, error) {
	params := url.Values{}
	params.Set("exact", name)
	if setCode != "" {
		params.Set("set", setCode)
	}

	var card models.Card
	if err := c.doRequest(ctx, c.baseURL+"/cards/named?"+params.Encode(), &card); err != nil {
		return nil, fmt.Errorf("failed to get card named %q: %w", name, err)
	}

	return &card, nil
}

// GetCard retrieves a card by its Scryfall ID.
func (c *Client) GetCard(ctx context.Context, id string) (*models.Card, error) {
	var card models.Card
	if err := c.doRequest(ctx, c.baseURL+"/cards/"+url.PathEscape(id), &card); err != nil {
		return nil, fmt.Errorf("failed to get card %s: %w", id, err)
	}

	return &card, nil
}

// GetRulings retrieves the official rulings of a card.
func (c *Client) GetRulings(ctx context.Context, id string) ([]Ruling, error) {
	var list RulingList
	if err := c.doRequest(ctx, c.baseURL+"/cards/"+url.PathEscape(id)+"/rulings", &list); err != nil {
		return nil, fmt.Errorf("failed to get rulings for %s: %w", id, err)
	}

	return list.Data, nil
}

// RandomCard returns a random card, optionally matching query.
func (c *Client) RandomCard(ctx context.Context, query string) (*models.Card, error) {
	endpoint := c.baseURL + "/cards/random"
	if query != "" {
		endpoint += "?" + url.Values{"q": {query}}.Encode()
	}

	var card models.Card
	if err := c.doRequest(ctx, endpoint, &card); err != nil {
		return nil, fmt.Errorf("failed to get random card: %w", err)
	}

	return &card, nil
}

// doRequest performs one rate-limited GET and decodes the JSON body.
func (c *Client) doRequest(ctx context.Context, endpoint string, result interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return &NetworkError{URL: endpoint, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{URL: endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{URL: endpoint, Err: fmt.Errorf("read response body: %w", err)}
	}

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to parse JSON response: %w", err)
		}
		return nil

	case http.StatusTooManyRequests:
		return &RateLimitedError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}

	case http.StatusNotFound:
		return &NotFoundError{URL: endpoint}

	default:
		httpErr := &HTTPError{Status: resp.StatusCode}
		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Details != "" {
			httpErr.Details = apiErr.Details
		} else {
			httpErr.Details = string(body)
		}
		return httpErr
	}
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// IsRateLimited reports whether err is or wraps a RateLimitedError.
func IsRateLimited(err error) bool {
	var rl *RateLimitedError
	return errors.As(err, &rl)
}

// IsNetworkError reports whether err is or wraps a NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
