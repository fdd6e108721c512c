package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/chronoshelf/pkg/cache"
	cerrors "github.com/matzehuels/chronoshelf/pkg/errors"
	"github.com/matzehuels/chronoshelf/pkg/observability"
)

const (
	httpTimeout = 10 * time.Second

	// MaxPageSize is the largest page the backend serves.
	MaxPageSize = 100
)

// Filter narrows the books requested from the backend. Zero values are not
// sent.
type Filter struct {
	Canon         string // canon_status
	ReadingStatus string // reading_status
	MinYear       *int   // timeline_year_min
	MaxYear       *int   // timeline_year_max
}

func (f Filter) values() url.Values {
	v := url.Values{}
	if f.Canon != "" {
		v.Set("canon_status", f.Canon)
	}
	if f.ReadingStatus != "" {
		v.Set("reading_status", f.ReadingStatus)
	}
	if f.MinYear != nil {
		v.Set("timeline_year_min", strconv.Itoa(*f.MinYear))
	}
	if f.MaxYear != nil {
		v.Set("timeline_year_max", strconv.Itoa(*f.MaxYear))
	}
	return v
}

// Client talks to the catalog backend's REST API.
type Client struct {
	baseURL  string
	http     *http.Client
	cache    cache.Cache
	keyer    cache.Keyer
	pageSize int
	refresh  bool
}

// ClientOption configures a [Client].
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithCache caches page responses for [cache.TTLHTTP].
func WithCache(cc cache.Cache, k cache.Keyer) ClientOption {
	return func(c *Client) {
		c.cache = cc
		if k != nil {
			c.keyer = k
		}
	}
}

// WithPageSize sets the page size, clamped to [1, MaxPageSize].
func WithPageSize(n int) ClientOption {
	return func(c *Client) { c.pageSize = min(max(n, 1), MaxPageSize) }
}

// WithRefresh bypasses cached responses; fresh ones are still stored.
func WithRefresh(refresh bool) ClientOption {
	return func(c *Client) { c.refresh = refresh }
}

// NewClient returns a client for the API rooted at baseURL
// (e.g. http://localhost:8000/api/v1).
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if err := cerrors.ValidateURL(baseURL); err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: httpTimeout},
		cache:    cache.NewNullCache(),
		keyer:    cache.NewDefaultKeyer(),
		pageSize: MaxPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchPage returns one page (1-based) of books.
func (c *Client) FetchPage(ctx context.Context, f Filter, page int) (*Page, error) {
	q := f.values()
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(c.pageSize))
	u := c.baseURL + "/books?" + q.Encode()

	key := c.keyer.HTTPKey("catalog", u)
	if !c.refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			var p Page
			if json.Unmarshal(data, &p) == nil {
				observability.Cache().OnCacheHit(ctx, "http")
				return &p, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "http")
	}

	var p Page
	err := cache.RetryWithBackoff(ctx, func() error {
		return c.get(ctx, u, &p)
	})
	if err != nil {
		return nil, classify(err, page)
	}

	if data, err := json.Marshal(p); err == nil {
		if c.cache.Set(ctx, key, data, cache.TTLHTTP) == nil {
			observability.Cache().OnCacheSet(ctx, "http", len(data))
		}
	}
	return &p, nil
}

// FetchAll walks every page and returns all matching books in backend order.
func (c *Client) FetchAll(ctx context.Context, f Filter) ([]Book, error) {
	var books []Book
	for page := 1; ; page++ {
		p, err := c.FetchPage(ctx, f, page)
		if err != nil {
			return nil, err
		}
		books = append(books, p.Items...)

		size := p.PageSize
		if size <= 0 {
			size = c.pageSize
		}
		if len(p.Items) == 0 || page*size >= p.Total {
			if err := Validate(books); err != nil {
				return nil, err
			}
			return books, nil
		}
	}
}

func (c *Client) get(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return cache.ErrNotFound
	case code == http.StatusTooManyRequests:
		return &cerrors.RateLimitedError{Message: "catalog backend"}
	case code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", cache.ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", cache.ErrNetwork, code)
	}
}

// classify maps client failures onto error codes for the CLI and API.
func classify(err error, page int) error {
	var rl *cerrors.RateLimitedError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return cerrors.Wrap(cerrors.ErrCodeTimeout, err, "fetch catalog page %d", page)
	case errors.Is(err, cache.ErrNotFound):
		return cerrors.Wrap(cerrors.ErrCodeNotFound, err, "fetch catalog page %d", page)
	case errors.As(err, &rl):
		return cerrors.Wrap(cerrors.ErrCodeRateLimited, err, "fetch catalog page %d", page)
	default:
		return cerrors.Wrap(cerrors.ErrCodeNetwork, err, "fetch catalog page %d", page)
	}
}
