package normalize

import (
	"context"
	"fmt"

	"newsbrief/internal/core"
	"newsbrief/internal/logger"
)

// ArticleStore is the slice of the article repository this stage needs.
type ArticleStore interface {
	ListDated(ctx context.Context) ([]core.Article, error)
	UpdatePublicationDate(ctx context.Context, id int64, date *string) error
}

// Normalizer rewrites stored publication dates into the canonical layout.
type Normalizer struct {
	articles ArticleStore
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(articles ArticleStore) *Normalizer {
	return &Normalizer{articles: articles}
}

// Run normalizes every stored publication date. Already-canonical values are
// left alone; values matching no known layout are cleared to null so the row
// keeps flowing through the pipeline instead of being dropped.
func (n *Normalizer) Run(ctx context.Context) error {
	log := logger.Get()

	dated, err := n.articles.ListDated(ctx)
	if err != nil {
		return fmt.Errorf("failed to list dated articles: %w", err)
	}

	rewritten, cleared := 0, 0
	for _, article := range dated {
		if err := ctx.Err(); err != nil {
			return err
		}
		if article.PublicationDate == nil || IsNormalized(*article.PublicationDate) {
			continue
		}
		normalized, ok := Date(*article.PublicationDate)
		if !ok {
			log.Warn("Clearing unparsable publication date",
				"id", article.ID, "value", *article.PublicationDate)
			if err := n.articles.UpdatePublicationDate(ctx, article.ID, nil); err != nil {
				return fmt.Errorf("failed to clear date for article %d: %w", article.ID, err)
			}
			cleared++
			continue
		}
		if err := n.articles.UpdatePublicationDate(ctx, article.ID, &normalized); err != nil {
			return fmt.Errorf("failed to update date for article %d: %w", article.ID, err)
		}
		rewritten++
	}

	log.Info("Date normalization complete", "rewritten", rewritten, "cleared", cleared)
	return nil
}
