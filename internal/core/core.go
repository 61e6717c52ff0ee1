package core

import "time"

// Stage identifies how far an article has progressed through the pipeline.
// Transitions are monotonic: stub -> backfilled -> enriched -> scored.
// An article may only be deleted while still a stub or backfilled (when
// body-text retrieval fails).
type Stage string

const (
	StageStub       Stage = "stub"       // title/link/provenance only
	StageBackfilled Stage = "backfilled" // body text present
	StageEnriched   Stage = "enriched"   // summary/category/keywords present
	StageScored     Stage = "scored"     // influence score present
)

// ArticleStub is the extractor's output for a single article on a source
// page: the minimal fields an index page exposes. Stubs are persisted and
// later backfilled with the article's own body text.
type ArticleStub struct {
	Title           string  `json:"title"`            // Article title (dedupe key)
	PublicationDate *string `json:"publication_date"` // Free-text date as found, nil if absent
	Author          *string `json:"author"`           // Author name(s), nil if absent
	Link            string  `json:"link"`             // Absolute article URL
	BaseURL         string  `json:"base_url"`         // Seed site the stub came from
	SourcePage      string  `json:"source_page"`      // Exact page the stub was extracted from
}

// Valid reports whether the stub carries the fields required for persistence.
func (s ArticleStub) Valid() bool {
	return s.Title != "" && s.Link != "" && s.BaseURL != "" && s.SourcePage != ""
}

// Article is a persisted news article. Fields are nil until the stage that
// produces them has run; identity is the title string (a deliberate,
// documented simplification carried over from the original system).
type Article struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Author            *string   `json:"author"`
	PublicationDate   *string   `json:"publication_date"` // YYYY-MM-DD once normalized
	Link              string    `json:"link"`
	BaseURL           string    `json:"base_url"`
	SourcePage        string    `json:"source_page"`
	Body              *string   `json:"body"`     // Full article text, nil until backfilled
	Keywords          []string  `json:"keywords"` // nil until categorized
	MainCategory      *string   `json:"main_category"`
	Summary           *string   `json:"summary"`
	InfluentialFactor *float64  `json:"influential_factor"` // [0,1], nil until scored
	CreatedTime       time.Time `json:"created_time"`
}

// Stage derives the article's pipeline stage from which fields are set.
func (a Article) Stage() Stage {
	switch {
	case a.InfluentialFactor != nil:
		return StageScored
	case a.Summary != nil && a.MainCategory != nil && a.Keywords != nil:
		return StageEnriched
	case a.Body != nil:
		return StageBackfilled
	default:
		return StageStub
	}
}

// Edition is one generated issue of the newsletter. The selected article set
// is stored in a join table rather than a CSV column so it is a real
// relation. HTML is nil until the edition has been rendered.
type Edition struct {
	ID              int64     `json:"id"`
	Creation        time.Time `json:"creation"`
	EditionNumber   int       `json:"edition_number"` // Monotonic per newsletter title
	Introduction    string    `json:"introduction"`
	TopNewsID       int64     `json:"top_news_id"` // Must be a member of SelectedIDs
	TopNews         string    `json:"top_news"`
	NewsletterTitle string    `json:"newsletter_title"`
	SelectedIDs     []int64   `json:"selected_ids"`
	HTML            *string   `json:"html"`
}

// Subscriber is a newsletter recipient. Email is the identity and is stored
// lowercase; removal is a hard delete.
type Subscriber struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	CreationTime  time.Time `json:"creation_time"`
	UpdateTime    time.Time `json:"update_time"`
	Preferences   string    `json:"preferences"` // CSV of selected topics
	AgeRange      string    `json:"age_range"`
	Gender        string    `json:"gender"`
	Country       string    `json:"country"`
	AIInvolvement string    `json:"ai_involvement"`
	Reason        string    `json:"reason"`
}

// StringPtr returns a pointer to s, or nil if s is empty. Convenience for
// building nullable article fields.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Float64Ptr returns a pointer to f.
func Float64Ptr(f float64) *float64 {
	return &f
}
