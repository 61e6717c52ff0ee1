package render

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"newsbrief/internal/core"
)

type fakeArticles struct {
	byID map[int64]core.Article
}

func (a *fakeArticles) Get(ctx context.Context, id int64) (*core.Article, error) {
	article, ok := a.byID[id]
	if !ok {
		return nil, fmt.Errorf("article %d not found", id)
	}
	return &article, nil
}

func (a *fakeArticles) GetByIDs(ctx context.Context, ids []int64) ([]core.Article, error) {
	var articles []core.Article
	for _, id := range ids {
		if article, ok := a.byID[id]; ok {
			articles = append(articles, article)
		}
	}
	return articles, nil
}

type fakeEditions struct {
	latest    *core.Edition
	storedID  int64
	storedDoc string
}

func (e *fakeEditions) Latest(ctx context.Context) (*core.Edition, error) {
	return e.latest, nil
}

func (e *fakeEditions) UpdateHTML(ctx context.Context, id int64, html string) error {
	e.storedID = id
	e.storedDoc = html
	return nil
}

func selectedArticle(id int64, title string) core.Article {
	return core.Article{
		ID:              id,
		Title:           title,
		Link:            fmt.Sprintf("https://example.com/%d", id),
		PublicationDate: core.StringPtr("2025-06-09"),
		Summary:         core.StringPtr("summary of " + title),
		Body:            core.StringPtr(strings.Repeat("word ", 340)),
	}
}

func testEdition() *core.Edition {
	return &core.Edition{
		ID:              7,
		Creation:        time.Date(2025, 6, 10, 6, 0, 0, 0, time.UTC),
		EditionNumber:   2,
		Introduction:    "Welcome to another edition.",
		TopNewsID:       1,
		TopNews:         "For the top news of this edition, robots folded laundry.",
		NewsletterTitle: "Machines on the Move",
		SelectedIDs:     []int64{1, 2, 3},
	}
}

func TestReadingTime(t *testing.T) {
	cases := []struct {
		words int
		want  int
	}{
		{0, 1},
		{50, 1},
		{170, 1},
		{340, 2},
		{900, 5},
	}
	for _, tc := range cases {
		text := strings.TrimSpace(strings.Repeat("word ", tc.words))
		if got := ReadingTime(text); got != tc.want {
			t.Errorf("ReadingTime(%d words) = %d, want %d", tc.words, got, tc.want)
		}
	}
}

func TestRunRendersAndStoresDocument(t *testing.T) {
	articles := &fakeArticles{byID: map[int64]core.Article{
		1: selectedArticle(1, "Laundry Robots"),
		2: selectedArticle(2, "Chip Wars"),
		3: selectedArticle(3, "Model Releases"),
	}}
	editions := &fakeEditions{latest: testEdition()}

	html, err := New(articles, editions, Options{}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if editions.storedID != 7 || editions.storedDoc != html {
		t.Error("rendered document was not stored on the edition row")
	}
	for _, want := range []string{
		"Machines on the Move",
		"Laundry Robots",
		"Chip Wars",
		"Model Releases",
		"TOP NEWS!",
		"For the top news of this edition, robots folded laundry.",
		"Issue No.7 Edition 2",
		"Current Date: 2025-06-10",
		"DEEPTECH DIGEST",
		EmailPlaceholder,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered document missing %q", want)
		}
	}

	// The top story renders once in its own section, not with the regular
	// article blocks.
	if got := strings.Count(html, "Laundry Robots"); got != 1 {
		t.Errorf("top story title rendered %d times, want 1", got)
	}
	if got := strings.Count(html, "READ MORE (2 mins)"); got != 3 {
		t.Errorf("READ MORE blocks = %d, want 3", got)
	}
}

func TestRunUsesCustomBranding(t *testing.T) {
	articles := &fakeArticles{byID: map[int64]core.Article{1: selectedArticle(1, "Solo Story")}}
	edition := testEdition()
	edition.SelectedIDs = []int64{1}
	editions := &fakeEditions{latest: edition}

	html, err := New(articles, editions, Options{
		BrandName:    "CRYPTO WEEKLY",
		ContactMail:  "hello@example.org",
		RedirectLink: "https://example.org",
	}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(html, "CRYPTO WEEKLY") || !strings.Contains(html, "hello@example.org") {
		t.Error("custom branding missing from document")
	}
	if strings.Contains(html, "DEEPTECH DIGEST") {
		t.Error("default brand leaked into custom-branded document")
	}
}
