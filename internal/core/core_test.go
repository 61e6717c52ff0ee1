package core

import "testing"

func TestArticleStubValid(t *testing.T) {
	stub := ArticleStub{
		Title:      "Example headline",
		Link:       "https://example.com/article",
		BaseURL:    "https://example.com",
		SourcePage: "https://example.com/news",
	}
	if !stub.Valid() {
		t.Error("Expected stub with title, link and provenance to be valid")
	}

	missing := []ArticleStub{
		{Link: "https://example.com/a", BaseURL: "https://example.com", SourcePage: "https://example.com"},
		{Title: "t", BaseURL: "https://example.com", SourcePage: "https://example.com"},
		{Title: "t", Link: "https://example.com/a", SourcePage: "https://example.com"},
		{Title: "t", Link: "https://example.com/a", BaseURL: "https://example.com"},
	}
	for i, s := range missing {
		if s.Valid() {
			t.Errorf("Case %d: expected stub with a missing required field to be invalid", i)
		}
	}
}

func TestArticleStage(t *testing.T) {
	body := "Full body text"
	summary := "A summary"
	category := "AI in Daily Life"
	score := 0.42

	article := Article{Title: "t", Link: "https://example.com/a"}
	if got := article.Stage(); got != StageStub {
		t.Errorf("Expected stage %s, got %s", StageStub, got)
	}

	article.Body = &body
	if got := article.Stage(); got != StageBackfilled {
		t.Errorf("Expected stage %s, got %s", StageBackfilled, got)
	}

	article.Summary = &summary
	article.MainCategory = &category
	article.Keywords = []string{"ai"}
	if got := article.Stage(); got != StageEnriched {
		t.Errorf("Expected stage %s, got %s", StageEnriched, got)
	}

	article.InfluentialFactor = &score
	if got := article.Stage(); got != StageScored {
		t.Errorf("Expected stage %s, got %s", StageScored, got)
	}
}

func TestStringPtr(t *testing.T) {
	if StringPtr("") != nil {
		t.Error("Expected nil for empty string")
	}
	p := StringPtr("x")
	if p == nil || *p != "x" {
		t.Error("Expected pointer to non-empty string")
	}
}
