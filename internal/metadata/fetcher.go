package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dshills/linkstash/pkg/types"
)

const (
	maxTitleRunes       = 300
	maxDescriptionRunes = 1000
)

// ErrUnsupportedURL is returned for URLs that are not absolute http(s) URLs
var ErrUnsupportedURL = errors.New("unsupported URL")

// Fetcher abstracts metadata fetching for testability
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*types.LinkMetadata, error)
}

// Config configures the HTTP fetcher
type Config struct {
	Timeout      time.Duration // Per-attempt request timeout
	UserAgent    string
	MaxBodyBytes int64 // Bytes of HTML read before giving up on finding the head
	Retry        RetryConfig
}

// DefaultConfig returns a 10s timeout, 1 MiB body cap and the default retry policy
func DefaultConfig() Config {
	return Config{
		Timeout:      10 * time.Second,
		UserAgent:    "linkstash/1.0 (+metadata fetcher)",
		MaxBodyBytes: 1 << 20,
		Retry:        DefaultRetryConfig(),
	}
}

// HTTPFetcher is the production Fetcher using real HTTP requests
type HTTPFetcher struct {
	client *http.Client
	cfg    Config
}

// NewHTTPFetcher creates a new HTTPFetcher
func NewHTTPFetcher(cfg Config) *HTTPFetcher {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultConfig().MaxBodyBytes
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

// Fetch downloads rawURL and extracts its metadata
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*types.LinkMetadata, error) {
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedURL, rawURL)
	}

	return retryWithBackoff(ctx, f.cfg.Retry, func() (*types.LinkMetadata, error) {
		return f.fetchOnce(ctx, base)
	})
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, target *url.URL) (*types.LinkMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	case resp.StatusCode >= 400:
		return nil, permanent(fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status))
	}

	if !isHTML(resp.Header.Get("Content-Type")) {
		return &types.LinkMetadata{}, nil
	}

	// Redirects change the base for relative image URLs
	base := target
	if resp.Request != nil && resp.Request.URL != nil {
		base = resp.Request.URL
	}

	meta, err := Parse(io.LimitReader(resp.Body, f.cfg.MaxBodyBytes), base)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	return meta, nil
}

// isHTML reports whether a Content-Type header names an HTML document. A
// missing header is treated as HTML.
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// clean collapses whitespace and caps the rune length
func clean(s string, maxRunes int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) > maxRunes {
		return strings.TrimSpace(string(runes[:maxRunes]))
	}
	return s
}
