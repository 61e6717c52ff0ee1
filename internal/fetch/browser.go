package fetch

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// BrowserFetcher renders pages in headless Chromium via Playwright, for
// sources that block plain HTTP clients or require JavaScript to populate
// the article list.
type BrowserFetcher struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

// NewBrowserFetcher launches the headless browser. Callers must Close it
// when the batch is done.
func NewBrowserFetcher() (*BrowserFetcher, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch headless browser: %w", err)
	}

	return &BrowserFetcher{pw: pw, browser: browser}, nil
}

// Fetch navigates to pageURL and returns the rendered DOM.
func (b *BrowserFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	page, err := b.browser.NewPage()
	if err != nil {
		return "", fmt.Errorf("failed to open browser page: %w", err)
	}
	defer func() { _ = page.Close() }()

	if _, err := page.Goto(pageURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		return "", fmt.Errorf("failed to navigate to %s: %w", pageURL, err)
	}

	content, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read rendered DOM for %s: %w", pageURL, err)
	}
	return content, nil
}

// Close shuts down the browser and the playwright driver.
func (b *BrowserFetcher) Close() error {
	if err := b.browser.Close(); err != nil {
		_ = b.pw.Stop()
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return b.pw.Stop()
}
