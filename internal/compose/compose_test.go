package compose

import (
	"context"
	"strings"
	"testing"
	"time"

	"newsbrief/internal/core"
	"newsbrief/internal/llm"
)

type fakeGenerator struct {
	replies []string
	prompts []string
	calls   int
}

func (g *fakeGenerator) GenerateText(ctx context.Context, prompt string, opts llm.TextGenerationOptions) (string, error) {
	g.prompts = append(g.prompts, prompt)
	reply := g.replies[g.calls%len(g.replies)]
	g.calls++
	return reply, nil
}

type fakeArticles struct {
	top       []core.Article
	sinceDate string
	limit     int
}

func (a *fakeArticles) TopInfluential(ctx context.Context, sinceDate string, limit int) ([]core.Article, error) {
	a.sinceDate = sinceDate
	a.limit = limit
	return a.top, nil
}

type fakeEditions struct {
	created *core.Edition
}

func (e *fakeEditions) Create(ctx context.Context, edition *core.Edition) error {
	edition.ID = 42
	edition.EditionNumber = 3
	e.created = edition
	return nil
}

func rankedArticle(id int64, title string, factor float64) core.Article {
	return core.Article{
		ID:                id,
		Title:             title,
		Body:              core.StringPtr("body of " + title),
		Summary:           core.StringPtr("summary of " + title),
		InfluentialFactor: core.Float64Ptr(factor),
	}
}

const introJSON = `{"introduction": "A week of wild AI news.\nLet's dig in.", "newsletter_title": "Machines on the Move"}`

func TestParseIntroReply(t *testing.T) {
	intro, title := ParseIntroReply(introJSON)
	if title != "Machines on the Move" {
		t.Errorf("title = %q", title)
	}
	if !strings.HasPrefix(intro, "A week of wild AI news.") {
		t.Errorf("intro = %q", intro)
	}
}

func TestParseIntroReplyFallsBackToRawText(t *testing.T) {
	raw := "Welcome to another packed edition of our newsletter."
	intro, title := ParseIntroReply(raw)
	if intro != raw {
		t.Errorf("intro = %q, want raw reply", intro)
	}
	if title != FallbackTitle {
		t.Errorf("title = %q, want %q", title, FallbackTitle)
	}
}

func TestParseIntroReplyStripsCodeFences(t *testing.T) {
	intro, title := ParseIntroReply("```json\n" + introJSON + "\n```")
	if title != "Machines on the Move" || intro == "" {
		t.Errorf("got (%q, %q)", intro, title)
	}
}

func TestRunCreatesEdition(t *testing.T) {
	generator := &fakeGenerator{replies: []string{
		introJSON,
		"For the top news of this edition, robots have learned to fold laundry.",
	}}
	articles := &fakeArticles{top: []core.Article{
		rankedArticle(1, "Laundry Robots", 0.9),
		rankedArticle(2, "Chip Wars", 0.8),
		rankedArticle(3, "Model Releases", 0.7),
	}}
	editions := &fakeEditions{}

	composer := New(generator, articles, editions, 2, 5)
	composer.now = func() time.Time { return time.Date(2025, 6, 10, 6, 0, 0, 0, time.UTC) }

	edition, err := composer.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if articles.sinceDate != "2025-06-08" {
		t.Errorf("sinceDate = %q, want 2025-06-08", articles.sinceDate)
	}
	if articles.limit != 5 {
		t.Errorf("limit = %d, want 5", articles.limit)
	}
	if edition.TopNewsID != 1 {
		t.Errorf("TopNewsID = %d, want 1", edition.TopNewsID)
	}
	found := false
	for _, id := range edition.SelectedIDs {
		if id == edition.TopNewsID {
			found = true
		}
	}
	if !found {
		t.Error("top news id must be part of the selected set")
	}
	if edition.NewsletterTitle != "Machines on the Move" {
		t.Errorf("title = %q", edition.NewsletterTitle)
	}
	if editions.created == nil || editions.created.ID != 42 {
		t.Error("edition was not persisted")
	}

	// The top-story prompt runs against the highest-scored article's body.
	if len(generator.prompts) != 2 || !strings.Contains(generator.prompts[1], "Laundry Robots:body of Laundry Robots") {
		t.Errorf("top-story prompt = %q", generator.prompts[len(generator.prompts)-1])
	}
}

func TestRunFailsWithoutCandidates(t *testing.T) {
	composer := New(&fakeGenerator{replies: []string{"x"}}, &fakeArticles{}, &fakeEditions{}, 2, 5)
	if _, err := composer.Run(context.Background()); err == nil {
		t.Fatal("expected error when no scored articles are in the window")
	}
}
