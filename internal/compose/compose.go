// Package compose selects the top-scored articles from the trailing window
// and writes a newsletter edition around them. Rendering happens separately
// from the persisted edition, so a composed newsletter can be re-rendered
// without further model calls.
package compose

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"newsbrief/internal/core"
	"newsbrief/internal/llm"
	"newsbrief/internal/logger"
	"newsbrief/internal/normalize"
)

// FallbackTitle names editions whose intro reply was not valid JSON.
const FallbackTitle = "Untitled Newsletter"

const introPromptTemplate = "Based on the following top article summaries:\n" +
	"%s\n" +
	"Generate an engaging newsletter introduction that seamlessly ties these articles together, exciting and inviting the reader to explore more. " +
	"Follow these writing style guidelines:\n" +
	"- **Conversational and Inclusive:** Use a friendly, community-driven tone that speaks directly to the reader.\n" +
	"- **Informative with a Casual Edge:** Present facts clearly but with a relaxed, accessible tone, avoiding overly formal language.\n" +
	"- **Inquisitive and Thought-Provoking:** Ask questions or raise points that encourage readers to think deeply about the topics.\n" +
	"- **Balanced Critique:** Acknowledge both the benefits and potential concerns related to the articles' subjects.\n" +
	"- **Dynamic and Playful:** Use light, engaging language with personality.\n" +
	"Structure the introduction into multiple paragraphs to improve the readability and flow, with each paragraph separated by newline characters. " +
	"Also, generate an eye-catching, highly attractive title for this edition of the newsletter that captures the essence of the articles.\n" +
	"Please provide your response in JSON format with the keys \"introduction\" and \"newsletter_title\"."

const topNewsPromptTemplate = "Summarize the following article to highlight its special importance or contribution:\n" +
	"%s\n" +
	"for this edition of the newsletter %s. " +
	"Using the similar transitional phrases like this 'For the top news of this edition....'"

// TextGenerator is the LLM surface this stage depends on.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, opts llm.TextGenerationOptions) (string, error)
}

// ArticleStore is the slice of the article repository this stage needs.
type ArticleStore interface {
	TopInfluential(ctx context.Context, sinceDate string, limit int) ([]core.Article, error)
}

// EditionStore is the slice of the edition repository this stage needs.
type EditionStore interface {
	Create(ctx context.Context, edition *core.Edition) error
}

// Composer builds newsletter editions.
type Composer struct {
	generator  TextGenerator
	articles   ArticleStore
	editions   EditionStore
	windowDays int
	topCount   int
	now        func() time.Time
}

// New creates a Composer selecting topCount articles published within the
// trailing windowDays days.
func New(generator TextGenerator, articles ArticleStore, editions EditionStore, windowDays, topCount int) *Composer {
	return &Composer{
		generator:  generator,
		articles:   articles,
		editions:   editions,
		windowDays: windowDays,
		topCount:   topCount,
		now:        time.Now,
	}
}

// Run selects articles, generates the introduction, edition title, and top
// story, and persists the edition. The highest-scored article is always the
// top story and is always part of the selected set.
func (c *Composer) Run(ctx context.Context) (*core.Edition, error) {
	log := logger.Get()
	now := c.now()
	sinceDate := now.AddDate(0, 0, -c.windowDays).Format(normalize.DateLayout)

	top, err := c.articles.TopInfluential(ctx, sinceDate, c.topCount)
	if err != nil {
		return nil, fmt.Errorf("failed to select top articles: %w", err)
	}
	if len(top) == 0 {
		return nil, fmt.Errorf("no scored articles published since %s", sinceDate)
	}
	log.Info("Composing newsletter", "articles", len(top), "since", sinceDate)

	intro, title, err := c.generateIntro(ctx, top)
	if err != nil {
		return nil, err
	}

	topNews, err := c.generateTopNews(ctx, top[0], intro)
	if err != nil {
		return nil, err
	}

	edition := &core.Edition{
		Creation:        now,
		Introduction:    intro,
		TopNewsID:       top[0].ID,
		TopNews:         topNews,
		NewsletterTitle: title,
	}
	for _, article := range top {
		edition.SelectedIDs = append(edition.SelectedIDs, article.ID)
	}

	if err := c.editions.Create(ctx, edition); err != nil {
		return nil, fmt.Errorf("failed to persist edition: %w", err)
	}
	log.Info("Edition created", "id", edition.ID, "title", title, "edition_number", edition.EditionNumber)
	return edition, nil
}

func (c *Composer) generateIntro(ctx context.Context, top []core.Article) (intro, title string, err error) {
	var summaries strings.Builder
	for i, article := range top {
		if i > 0 {
			summaries.WriteString("\n")
		}
		summary := "N/A"
		if article.Summary != nil {
			summary = *article.Summary
		}
		fmt.Fprintf(&summaries, "Title: %s\nSummary: %s", article.Title, summary)
	}

	prompt := fmt.Sprintf(introPromptTemplate, summaries.String())
	reply, err := c.generator.GenerateText(ctx, prompt, llm.TextGenerationOptions{MaxTokens: 750})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate introduction: %w", err)
	}

	intro, title = ParseIntroReply(reply)
	return intro, title, nil
}

func (c *Composer) generateTopNews(ctx context.Context, top core.Article, intro string) (string, error) {
	body := ""
	if top.Body != nil {
		body = *top.Body
	}
	topArticle := top.Title + ":" + body

	prompt := fmt.Sprintf(topNewsPromptTemplate, topArticle, intro)
	reply, err := c.generator.GenerateText(ctx, prompt, llm.TextGenerationOptions{MaxTokens: 600})
	if err != nil {
		return "", fmt.Errorf("failed to generate top story: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

// introReply is the JSON shape expected from the introduction call.
type introReply struct {
	Introduction    string `json:"introduction"`
	NewsletterTitle string `json:"newsletter_title"`
}

// ParseIntroReply decodes the introduction reply. A reply that is not valid
// JSON becomes the introduction verbatim under the fallback title.
func ParseIntroReply(reply string) (intro, title string) {
	reply = stripCodeFences(reply)

	var parsed introReply
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil || parsed.Introduction == "" {
		return reply, FallbackTitle
	}
	title = parsed.NewsletterTitle
	if title == "" {
		title = FallbackTitle
	}
	return parsed.Introduction, title
}

func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.HasPrefix(lines[len(lines)-1], "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
