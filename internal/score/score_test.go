package score

import (
	"context"
	"strings"
	"testing"

	"newsbrief/internal/core"
	"newsbrief/internal/llm"
)

type fakeGenerator struct {
	replies   []string
	prompts   []string
	lastOpts  llm.TextGenerationOptions
	callCount int
}

func (g *fakeGenerator) GenerateText(ctx context.Context, prompt string, opts llm.TextGenerationOptions) (string, error) {
	g.prompts = append(g.prompts, prompt)
	g.lastOpts = opts
	reply := g.replies[g.callCount%len(g.replies)]
	g.callCount++
	return reply, nil
}

type fakeStore struct {
	pending []core.Article
	scores  map[int64]float64
}

func (s *fakeStore) ListUnscored(ctx context.Context) ([]core.Article, error) {
	return s.pending, nil
}

func (s *fakeStore) UpdateInfluentialFactor(ctx context.Context, id int64, factor float64) error {
	if s.scores == nil {
		s.scores = make(map[int64]float64)
	}
	s.scores[id] = factor
	return nil
}

func scoredCandidate(id int64, title string) core.Article {
	return core.Article{ID: id, Title: title, Summary: core.StringPtr("an article summary")}
}

func TestParseScore(t *testing.T) {
	cases := []struct {
		reply string
		want  float64
		ok    bool
	}{
		{"0.85", 0.85, true},
		{" 0.5\n", 0.5, true},
		{"1.7", 1, true},
		{"-0.3", 0, true},
		{"0.856", 0.86, true},
		{"pretty influential", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseScore(tc.reply)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseScore(%q) = (%v, %v), want (%v, %v)", tc.reply, got, ok, tc.want, tc.ok)
		}
	}
}

func TestRunScoresPendingArticles(t *testing.T) {
	generator := &fakeGenerator{replies: []string{"0.74"}}
	store := &fakeStore{pending: []core.Article{scoredCandidate(11, "Robots Everywhere")}}

	if err := New(generator, store).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := store.scores[11]; got != 0.74 {
		t.Errorf("score = %v, want 0.74", got)
	}
	if len(generator.prompts) != 1 || !strings.Contains(generator.prompts[0], "Robots Everywhere") {
		t.Errorf("prompt missing title: %v", generator.prompts)
	}
	if !strings.Contains(generator.prompts[0], "PSI, 30%") {
		t.Error("prompt missing rubric weights")
	}
	if generator.lastOpts.MaxTokens != 50 {
		t.Errorf("MaxTokens = %d, want 50", generator.lastOpts.MaxTokens)
	}
}

func TestRunLeavesUnparsableRepliesUnscored(t *testing.T) {
	generator := &fakeGenerator{replies: []string{"around 0.8 I would say"}}
	store := &fakeStore{pending: []core.Article{scoredCandidate(5, "title")}}

	if err := New(generator, store).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(store.scores) != 0 {
		t.Errorf("scores = %v, want none", store.scores)
	}
}
