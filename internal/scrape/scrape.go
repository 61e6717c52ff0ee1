// Package scrape runs the collection stage: fetch each configured source
// page, clean its markup, extract article stubs with the model, and persist
// them. Duplicate titles are absorbed by the store.
package scrape

import (
	"context"
	"fmt"

	"newsbrief/internal/core"
	"newsbrief/internal/fetch"
	"newsbrief/internal/logger"
	"newsbrief/internal/normalize"
)

// PageFetcher retrieves the raw HTML of a listing page.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// StubExtractor turns cleaned listing-page HTML into article stubs.
type StubExtractor interface {
	ExtractArticles(ctx context.Context, cleanedHTML, baseURL, sourcePage string) ([]core.ArticleStub, error)
}

// StubStore is the slice of the article repository this stage needs.
type StubStore interface {
	InsertStubs(ctx context.Context, stubs []core.ArticleStub) (int, error)
}

// Scraper collects article stubs from the configured source pages.
type Scraper struct {
	fetcher   PageFetcher
	extractor StubExtractor
	articles  StubStore
	sources   []string
}

// New creates a Scraper over the given source page URLs.
func New(fetcher PageFetcher, extractor StubExtractor, articles StubStore, sources []string) *Scraper {
	return &Scraper{
		fetcher:   fetcher,
		extractor: extractor,
		articles:  articles,
		sources:   sources,
	}
}

// Run scrapes every source page. A source that cannot be fetched or parsed is
// logged and skipped; the remaining sources still run. Publication dates are
// normalized on the way in; values matching no known layout are stored as
// null for the backfill stage to recover.
func (s *Scraper) Run(ctx context.Context) error {
	log := logger.Get()
	if len(s.sources) == 0 {
		return fmt.Errorf("no source pages configured")
	}

	total := 0
	failed := 0
	for _, source := range s.sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		inserted, err := s.scrapeSource(ctx, source)
		if err != nil {
			log.Warn("Skipping source page", "source", source, "error", err)
			failed++
			continue
		}
		total += inserted
	}

	log.Info("Scrape complete", "sources", len(s.sources), "failed_sources", failed, "new_articles", total)
	if failed == len(s.sources) {
		return fmt.Errorf("all %d source pages failed", failed)
	}
	return nil
}

func (s *Scraper) scrapeSource(ctx context.Context, source string) (int, error) {
	log := logger.Get()

	rawHTML, err := s.fetcher.Fetch(ctx, source)
	if err != nil {
		return 0, err
	}

	cleaned, err := fetch.Clean(rawHTML)
	if err != nil {
		return 0, fmt.Errorf("failed to clean page: %w", err)
	}

	stubs, err := s.extractor.ExtractArticles(ctx, cleaned, source, source)
	if err != nil {
		return 0, err
	}
	log.Info("Extracted article stubs", "source", source, "count", len(stubs))

	for i := range stubs {
		stubs[i].PublicationDate = normalizeDate(stubs[i].PublicationDate)
	}

	inserted, err := s.articles.InsertStubs(ctx, stubs)
	if err != nil {
		return 0, fmt.Errorf("failed to store stubs: %w", err)
	}
	return inserted, nil
}

func normalizeDate(raw *string) *string {
	if raw == nil {
		return nil
	}
	normalized, ok := normalize.Date(*raw)
	if !ok {
		return nil
	}
	return &normalized
}
