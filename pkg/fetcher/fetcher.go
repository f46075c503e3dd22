package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dtnitsch/web-summarizer/pkg/caching"
)

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch %s, status code: %d", e.URL, e.StatusCode)
}

// Options configures a Fetcher. Zero values mean no timeout, no body limit,
// the Go default user agent and no cache.
type Options struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	UserAgent    string
	Cache        *caching.Cache
	Client       *http.Client
}

type Fetcher struct {
	client       *http.Client
	maxBodyBytes int64
	userAgent    string
	cache        *caching.Cache
}

func NewFetcher(opts Options) *Fetcher {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &Fetcher{
		client:       client,
		maxBodyBytes: opts.MaxBodyBytes,
		userAgent:    opts.UserAgent,
		cache:        opts.Cache,
	}
}

// GetHtmlBytes fetches url and returns the raw response body. Bodies larger
// than MaxBodyBytes are cut at the limit.
func (f *Fetcher) GetHtmlBytes(ctx context.Context, url string) ([]byte, error) {
	if f.cache != nil {
		if data, ok := f.cache.Get(url); ok {
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	var reader io.Reader = resp.Body
	if f.maxBodyBytes > 0 {
		reader = io.LimitReader(resp.Body, f.maxBodyBytes)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if f.cache != nil {
		// A cache write failure only costs a refetch next time.
		_ = f.cache.Set(url, body)
	}
	return body, nil
}
