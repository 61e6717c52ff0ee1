// Package score assigns each enriched article an influence score used to rank
// candidates for the newsletter.
package score

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"newsbrief/internal/core"
	"newsbrief/internal/llm"
	"newsbrief/internal/logger"
)

const rubricPrompt = "Evaluate the potential influential factor or popularity of the article titled '%s' with the summary: %s. " +
	"Consider the following criteria: " +
	"1. Public & Social Impact (PSI, 30%%): Does this article highlight changes in how people live, work, learn, or interact due to AI? Look for shifts in behavior, mass adoption, or ethical/social debates. " +
	"2. Industry Transformation Potential (ITP, 25%%): Does the article describe AI affecting a major industry (e.g., healthcare, finance, education, manufacturing)? Consider scale, disruption potential, or cross-sector relevance. " +
	"3. Technological Breakthrough Significance (TBS, 20%%): Does it feature novel capabilities, architectures, or models (e.g., new LLMs, multimodal models)? Evaluate its innovation level and technical leap. " +
	"4. Governance & Regulation Influence (GRI, 10%%): Does it involve AI-related policies, bans, global alignment, or government frameworks? Consider international attention, legal implications, and political interest. " +
	"5. Virality & Media Buzz (VMB, 10%%): Is the topic trending, meme-worthy, emotionally provocative, or viral on social platforms? Think about shareability, outrage factor, or media attention. " +
	"6. Long-Term Societal Shift Indicator (LSSI, 5%%): Could this news indicate a deep, lasting shift in human-AI relations or infrastructure? Assess ideological, educational, or systemic changes. " +
	"Return a **popularity score between 0 and 1**, rounded to **two decimal places**, with **no explanation or extra text**."

// TextGenerator is the LLM surface this stage depends on.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, opts llm.TextGenerationOptions) (string, error)
}

// ArticleStore is the slice of the article repository this stage needs.
type ArticleStore interface {
	ListUnscored(ctx context.Context) ([]core.Article, error)
	UpdateInfluentialFactor(ctx context.Context, id int64, factor float64) error
}

// Scorer runs the influence-scoring stage.
type Scorer struct {
	generator TextGenerator
	articles  ArticleStore
}

// New creates a Scorer.
func New(generator TextGenerator, articles ArticleStore) *Scorer {
	return &Scorer{generator: generator, articles: articles}
}

// Run scores every unscored article. Replies that do not parse as a number
// leave the score null so the next run retries the article.
func (s *Scorer) Run(ctx context.Context) error {
	log := logger.Get()

	pending, err := s.articles.ListUnscored(ctx)
	if err != nil {
		return fmt.Errorf("failed to list unscored articles: %w", err)
	}
	log.Info("Scoring articles", "count", len(pending))

	scored := 0
	for _, article := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		summary := ""
		if article.Summary != nil {
			summary = *article.Summary
		}
		prompt := fmt.Sprintf(rubricPrompt, article.Title, summary)

		reply, err := s.generator.GenerateText(ctx, prompt, llm.TextGenerationOptions{MaxTokens: 50})
		if err != nil {
			log.Warn("Skipping article until next run", "id", article.ID, "error", err)
			continue
		}

		factor, ok := ParseScore(reply)
		if !ok {
			log.Warn("Unparsable score reply, retrying next run", "id", article.ID, "reply", reply)
			continue
		}
		if err := s.articles.UpdateInfluentialFactor(ctx, article.ID, factor); err != nil {
			return fmt.Errorf("failed to store score for article %d: %w", article.ID, err)
		}
		scored++
	}

	log.Info("Scoring complete", "scored", scored, "skipped", len(pending)-scored)
	return nil
}

// ParseScore decodes a bare numeric reply, clamps it to [0, 1], and rounds it
// to two decimal places. The second return is false when the reply is not a
// number.
func ParseScore(reply string) (float64, bool) {
	factor, err := strconv.ParseFloat(strings.TrimSpace(reply), 64)
	if err != nil {
		return 0, false
	}
	factor = math.Max(0, math.Min(1, factor))
	return math.Round(factor*100) / 100, true
}
