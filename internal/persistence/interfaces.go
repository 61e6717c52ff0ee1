// Package persistence provides the relational-store implementations behind
// the pipeline stages. Each stage re-queries for the rows still missing its
// output, so a crashed run resumes naturally on the next invocation.
package persistence

import (
	"context"

	"newsbrief/internal/core"
)

// ArticleRepository persists article stubs and the per-stage enrichments.
type ArticleRepository interface {
	// InsertStubs upserts stubs keyed on title; conflicting titles are
	// silently skipped (first writer wins). Stubs missing required fields
	// are rejected before insert. Returns the number of rows inserted.
	InsertStubs(ctx context.Context, stubs []core.ArticleStub) (int, error)

	// Get returns one article by id.
	Get(ctx context.Context, id int64) (*core.Article, error)

	// GetByIDs returns the articles with the given ids, in store order.
	GetByIDs(ctx context.Context, ids []int64) ([]core.Article, error)

	// ListIncomplete returns rows still missing body text, author, or
	// publication date, the backfill stage's input.
	ListIncomplete(ctx context.Context) ([]core.Article, error)

	// FillDetails stores the scraped body text and fills author and
	// publication date only where currently null.
	FillDetails(ctx context.Context, id int64, body string, author, pubDate *string) error

	// Delete removes an article row. Used when body-text retrieval fails.
	Delete(ctx context.Context, id int64) error

	// PurgeBodyless deletes any row whose body text is still null and
	// returns how many were removed.
	PurgeBodyless(ctx context.Context) (int64, error)

	// ListDated returns id and raw publication date for all rows that have
	// one, the normalizer's input.
	ListDated(ctx context.Context) ([]core.Article, error)

	// UpdatePublicationDate overwrites the stored date; nil clears it.
	UpdatePublicationDate(ctx context.Context, id int64, date *string) error

	// ListUncategorized returns backfilled rows missing summary, keywords,
	// or category.
	ListUncategorized(ctx context.Context) ([]core.Article, error)

	// UpdateEnrichment stores the categorizer's output for one row.
	UpdateEnrichment(ctx context.Context, id int64, keywords []string, mainCategory, summary string) error

	// ListUnscored returns enriched, dated rows with no influence score yet.
	ListUnscored(ctx context.Context) ([]core.Article, error)

	// UpdateInfluentialFactor stores the scorer's output for one row.
	UpdateInfluentialFactor(ctx context.Context, id int64, factor float64) error

	// TopInfluential returns the highest-scored articles published on or
	// after sinceDate (YYYY-MM-DD), ordered by score descending.
	TopInfluential(ctx context.Context, sinceDate string, limit int) ([]core.Article, error)
}

// EditionRepository persists newsletter editions and their article sets.
type EditionRepository interface {
	// Create inserts the edition and its selected-article relation.
	// The edition number is assigned inside the insert transaction:
	// max(existing for this title)+1, or 1 for a new title. ID and
	// EditionNumber are set on the passed edition.
	Create(ctx context.Context, edition *core.Edition) error

	// Latest returns the most recently created edition with its selected
	// article ids loaded.
	Latest(ctx context.Context) (*core.Edition, error)

	// UpdateHTML stores the rendered document on the edition row.
	UpdateHTML(ctx context.Context, id int64, html string) error
}

// SubscriberRepository manages newsletter recipients.
type SubscriberRepository interface {
	// Upsert creates the subscriber or refreshes preferences and profile
	// fields for an existing email. Email is normalized to lowercase.
	Upsert(ctx context.Context, sub *core.Subscriber) error

	// Remove hard-deletes a subscriber by email.
	Remove(ctx context.Context, email string) error

	// List returns all subscribers.
	List(ctx context.Context) ([]core.Subscriber, error)
}

// Database bundles the repositories behind one connection pool.
type Database interface {
	Articles() ArticleRepository
	Editions() EditionRepository
	Subscribers() SubscriberRepository
	Ping(ctx context.Context) error
	Close() error
}
