// Package backfill retrieves full article text for stub rows. It is the one
// pipeline stage that may delete articles: a row whose page yields no usable
// body has nothing for the later LLM stages to work with.
package backfill

import (
	"context"
	"fmt"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"newsbrief/internal/core"
	"newsbrief/internal/logger"
	"newsbrief/internal/normalize"
)

// DefaultMinBodyChars is the shortest body text considered a real article.
const DefaultMinBodyChars = 50

// Extraction is the readable content pulled from one article page.
type Extraction struct {
	Body            string
	Author          *string
	PublicationDate *string
}

// TextExtractor retrieves the readable content of an article page.
type TextExtractor interface {
	Extract(ctx context.Context, link string) (Extraction, error)
}

// ReadabilityExtractor extracts article content with go-readability.
type ReadabilityExtractor struct {
	timeout time.Duration
}

// NewReadabilityExtractor creates an extractor with the given per-page timeout.
func NewReadabilityExtractor(timeout time.Duration) *ReadabilityExtractor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ReadabilityExtractor{timeout: timeout}
}

func (e *ReadabilityExtractor) Extract(ctx context.Context, link string) (Extraction, error) {
	article, err := readability.FromURL(link, e.timeout)
	if err != nil {
		return Extraction{}, fmt.Errorf("failed to extract article from %s: %w", link, err)
	}

	ext := Extraction{Body: strings.TrimSpace(article.TextContent)}
	if byline := strings.TrimSpace(article.Byline); byline != "" {
		ext.Author = &byline
	}
	if article.PublishedTime != nil {
		date := article.PublishedTime.Format(normalize.DateLayout)
		ext.PublicationDate = &date
	}
	return ext, nil
}

// ArticleStore is the slice of the article repository this stage needs.
type ArticleStore interface {
	ListIncomplete(ctx context.Context) ([]core.Article, error)
	FillDetails(ctx context.Context, id int64, body string, author, pubDate *string) error
	Delete(ctx context.Context, id int64) error
}

// Backfiller fills in body text, author, and publication date for stub rows.
type Backfiller struct {
	articles     ArticleStore
	extractor    TextExtractor
	minBodyChars int
}

// New creates a Backfiller. minBodyChars <= 0 selects the default threshold.
func New(articles ArticleStore, extractor TextExtractor, minBodyChars int) *Backfiller {
	if minBodyChars <= 0 {
		minBodyChars = DefaultMinBodyChars
	}
	return &Backfiller{
		articles:     articles,
		extractor:    extractor,
		minBodyChars: minBodyChars,
	}
}

// Run backfills every incomplete article. Rows whose pages cannot be read, or
// whose body text is shorter than the threshold, are deleted. Author and
// publication date are filled only where still null; existing values from the
// listing-page extraction are kept.
func (b *Backfiller) Run(ctx context.Context) error {
	log := logger.Get()

	incomplete, err := b.articles.ListIncomplete(ctx)
	if err != nil {
		return fmt.Errorf("failed to list incomplete articles: %w", err)
	}
	log.Info("Backfilling articles", "count", len(incomplete))

	filled, removed := 0, 0
	for _, article := range incomplete {
		if err := ctx.Err(); err != nil {
			return err
		}
		// Re-fetching an already-backfilled body just to fill a missing
		// author or date is wasteful but harmless; the body always comes
		// back the same.
		ext, extractErr := b.extractor.Extract(ctx, article.Link)
		if extractErr == nil && len(ext.Body) < b.minBodyChars {
			extractErr = fmt.Errorf("body text too short (%d chars)", len(ext.Body))
		}
		if extractErr != nil {
			log.Warn("Removing article without usable body text",
				"id", article.ID, "link", article.Link, "error", extractErr)
			if err := b.articles.Delete(ctx, article.ID); err != nil {
				return fmt.Errorf("failed to delete article %d: %w", article.ID, err)
			}
			removed++
			continue
		}
		if err := b.articles.FillDetails(ctx, article.ID, ext.Body, ext.Author, ext.PublicationDate); err != nil {
			return fmt.Errorf("failed to store details for article %d: %w", article.ID, err)
		}
		filled++
	}

	log.Info("Backfill complete", "filled", filled, "removed", removed)
	return nil
}
