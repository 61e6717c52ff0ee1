package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"newsbrief/internal/logger"
)

// PageFetcher retrieves the raw HTML of a single page.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// Fetcher retrieves source pages with a plain HTTP GET first and falls back
// to a browser-automation client when the direct request fails or is
// blocked. Failure of both paths is reported to the caller, who skips the
// URL and continues the batch.
type Fetcher struct {
	client    *http.Client
	userAgent string
	browser   PageFetcher // nil disables the fallback
}

// New creates a Fetcher with the given per-request timeout and user agent.
// browser may be nil when the fallback is disabled.
func New(timeout time.Duration, userAgent string, browser PageFetcher) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		browser:   browser,
	}
}

// Fetch returns the raw HTML for pageURL.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	html, err := f.httpFetch(ctx, pageURL)
	if err == nil {
		return html, nil
	}

	if f.browser == nil {
		return "", fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}

	logger.Warn("Direct fetch failed, falling back to browser", "url", pageURL, "error", err.Error())
	html, browserErr := f.browser.Fetch(ctx, pageURL)
	if browserErr != nil {
		return "", fmt.Errorf("failed to fetch %s with both methods: http: %v; browser: %w", pageURL, err, browserErr)
	}
	return html, nil
}

func (f *Fetcher) httpFetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", pageURL, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL %s: status code %d", pageURL, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body from %s: %w", pageURL, err)
	}

	return string(bodyBytes), nil
}
