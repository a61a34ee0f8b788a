package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

const (
	wikiBaseURL  = "https://en.wikipedia.org/wiki/"
	wikiTimeout  = 30 * time.Second
	maxPageSize  = 8 << 20 // county tables for Texas and Georgia run past 1MB
	defaultAgent = "countyroots/1.0 (+https://github.com/thesavant42/countyroots)"
)

// PageCache stores raw page bodies keyed by URL
type PageCache interface {
	GetPage(url string) ([]byte, bool, error)
	SavePage(url string, body []byte) error
}

// WikiClient fetches reference pages from Wikipedia
type WikiClient struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	cache      PageCache
	refresh    bool // skip cache reads, still write through
	logger     *log.Logger
}

// WikiOption configures a WikiClient
type WikiOption func(*WikiClient)

// WithBaseURL points the client at another wiki root (tests use httptest)
func WithBaseURL(base string) WikiOption {
	return func(c *WikiClient) {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		c.baseURL = base
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) WikiOption {
	return func(c *WikiClient) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) WikiOption {
	return func(c *WikiClient) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithPageCache enables the raw page cache. With refresh set, cached pages
// are ignored but fresh bodies are still stored.
func WithPageCache(cache PageCache, refresh bool) WikiOption {
	return func(c *WikiClient) {
		c.cache = cache
		c.refresh = refresh
	}
}

// NewWikiClient creates a new Wikipedia client
func NewWikiClient(logger *log.Logger, opts ...WikiOption) *WikiClient {
	c := &WikiClient{
		httpClient: &http.Client{
			Timeout: wikiTimeout,
		},
		baseURL:   wikiBaseURL,
		userAgent: defaultAgent,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ArticleURL builds the URL of an article, replacing spaces with underscores
func (c *WikiClient) ArticleURL(title string) string {
	return c.baseURL + strings.ReplaceAll(title, " ", "_")
}

// FetchArticle fetches an article by title
func (c *WikiClient) FetchArticle(ctx context.Context, title string) ([]byte, error) {
	return c.FetchPage(ctx, c.ArticleURL(title))
}

// FetchPage fetches a page body, consulting the page cache first
func (c *WikiClient) FetchPage(ctx context.Context, pageURL string) ([]byte, error) {
	if c.cache != nil && !c.refresh {
		body, ok, err := c.cache.GetPage(pageURL)
		if err != nil {
			c.debug("Page cache read failed", "url", pageURL, "error", err)
		} else if ok {
			c.debug("Page cache hit", "url", pageURL, "bytes", len(body))
			return body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("page not found: %s", pageURL)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("rate limited - please wait and try again")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wiki returned status %d for %s", resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.SavePage(pageURL, body); err != nil {
			c.debug("Page cache write failed", "url", pageURL, "error", err)
		}
	}

	return body, nil
}

func (c *WikiClient) debug(msg string, keyvals ...interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, keyvals...)
	}
}
