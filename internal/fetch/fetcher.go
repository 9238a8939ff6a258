// Package fetch retrieves the remote HTML template that the page is built on.
//
// The fetcher makes a single GET per call and hands back the response with an
// unread body, so callers can stream it. Anything other than a 2xx response is
// reported as domain.ErrFetch.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dabasajay/linkspage/internal/domain"
)

// TemplateContentType is sent as the Content-Type header on template requests.
const TemplateContentType = "text/html;charset=UTF-8"

const maxRedirects = 5

// Config configures the fetcher.
type Config struct {
	URL       string        // Template location. Required.
	Timeout   time.Duration // Bounds the whole fetch including the body. Default: 10s.
	UserAgent string        // Default: "linkspage/1.0".
	// Transport overrides the HTTP transport. Nil means http.DefaultTransport.
	Transport http.RoundTripper
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = "linkspage/1.0"
	}
}

// Fetcher performs template requests.
type Fetcher struct {
	client *http.Client
	config Config
}

// New creates a Fetcher.
func New(cfg Config) *Fetcher {
	cfg.defaults()
	return &Fetcher{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects (%d)", len(via))
				}
				return nil
			},
		},
		config: cfg,
	}
}

// URL returns the configured template location.
func (f *Fetcher) URL() string {
	return f.config.URL
}

// Template fetches the template. On success the caller owns resp.Body and
// must close it. Cancelling ctx aborts both the request and the body stream.
func (f *Fetcher) Template(ctx context.Context) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.config.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: new request: %v", domain.ErrFetch, err)
	}
	req.Header.Set("Content-Type", TemplateContentType)
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: http get: %w", domain.ErrFetch, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a bounded amount so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		resp.Body.Close()
		return nil, fmt.Errorf("%w: http %d", domain.ErrFetch, resp.StatusCode)
	}

	return resp, nil
}
