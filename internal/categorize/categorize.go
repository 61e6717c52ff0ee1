// Package categorize enriches backfilled articles with keywords, a category
// from a fixed taxonomy, and a reader-facing summary.
package categorize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"newsbrief/internal/core"
	"newsbrief/internal/llm"
	"newsbrief/internal/logger"
)

// FallbackCategory is assigned when no category in the taxonomy fits.
const FallbackCategory = "AI in Daily Life (health, education, entertainment, etc.)"

// Categories returns the fixed taxonomy, in presentation order.
func Categories() []string {
	return []string{
		"Breakthrough Research & Frontier AI",
		"Enterprise Adoption & Industrial Automation",
		"AI in Daily Life (health, education, entertainment, etc.)",
		"AI & Jobs: Workplace Transformation & Skills",
		"Ethics, Regulation & Governance",
		"Market Trends, Funding & Investment",
		"Tools, Platforms & Developer Ecosystem",
	}
}

const systemPrompt = `You are an AI assistant for article classification and extraction. Your task is to analyze an article and extract structured information, ensuring that the extracted data **strictly** follows the provided JSON schema.

**Guidelines:**
- **Keywords:** Extract relevant terms from the article.
- **Main Category:** Select **ONLY** from the following categories:
1. Breakthrough Research & Frontier AI
2. Enterprise Adoption & Industrial Automation
3. AI in Daily Life (health, education, entertainment, etc.)
4. AI & Jobs: Workplace Transformation & Skills
5. Ethics, Regulation & Governance
6. Market Trends, Funding & Investment
7. Tools, Platforms & Developer Ecosystem
- **Summary:** Provide an engaging, human-style summary (~3-5 sentences) like a blogger or tech journalist. Focus on **why it matters**, who is involved, and the **impact on society, work, or innovation**.

**Strict Rules:**
- The main_category **must be one of the provided categories**.
- If the main category **does not match any of the predefined categories**, choose "AI in Daily Life (health, education, entertainment, etc.)" as a fallback.`

// Enrichment is the structured output expected from the model.
type Enrichment struct {
	Keywords     []string `json:"keywords"`
	MainCategory string   `json:"main_category"`
	Summary      string   `json:"summary"`
}

// responseSchema constrains the model reply to the Enrichment shape.
func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"keywords": {
				Type:        genai.TypeArray,
				Description: "Keywords extracted from the article",
				Items: &genai.Schema{
					Type: genai.TypeString,
				},
			},
			"main_category": {
				Type:        genai.TypeString,
				Description: "The main category of the article",
			},
			"summary": {
				Type:        genai.TypeString,
				Description: "A brief summary of the article in a personal blogger's style",
			},
		},
		Required: []string{"keywords", "main_category", "summary"},
	}
}

// TextGenerator is the LLM surface this stage depends on.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, opts llm.TextGenerationOptions) (string, error)
}

// ArticleStore is the slice of the article repository this stage needs.
type ArticleStore interface {
	PurgeBodyless(ctx context.Context) (int64, error)
	ListUncategorized(ctx context.Context) ([]core.Article, error)
	UpdateEnrichment(ctx context.Context, id int64, keywords []string, mainCategory, summary string) error
}

// Categorizer runs the enrichment stage.
type Categorizer struct {
	generator TextGenerator
	articles  ArticleStore
}

// New creates a Categorizer.
func New(generator TextGenerator, articles ArticleStore) *Categorizer {
	return &Categorizer{generator: generator, articles: articles}
}

// Run enriches every uncategorized article. Articles whose model reply cannot
// be parsed or names a category outside the taxonomy are logged and left
// untouched; the next run picks them up again.
func (c *Categorizer) Run(ctx context.Context) error {
	log := logger.Get()

	purged, err := c.articles.PurgeBodyless(ctx)
	if err != nil {
		return fmt.Errorf("failed to purge bodyless articles: %w", err)
	}
	if purged > 0 {
		log.Info("Purged articles without body text", "count", purged)
	}

	pending, err := c.articles.ListUncategorized(ctx)
	if err != nil {
		return fmt.Errorf("failed to list uncategorized articles: %w", err)
	}
	log.Info("Categorizing articles", "count", len(pending))

	enriched := 0
	for _, article := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.categorizeOne(ctx, article); err != nil {
			log.Warn("Skipping article until next run", "id", article.ID, "title", article.Title, "error", err)
			continue
		}
		enriched++
	}

	log.Info("Categorization complete", "enriched", enriched, "skipped", len(pending)-enriched)
	return nil
}

func (c *Categorizer) categorizeOne(ctx context.Context, article core.Article) error {
	body := ""
	if article.Body != nil {
		body = *article.Body
	}

	reply, err := c.generator.GenerateText(ctx, body, llm.TextGenerationOptions{
		SystemPrompt:   systemPrompt,
		ResponseSchema: responseSchema(),
		Temperature:    0.1,
		MaxTokens:      10000,
	})
	if err != nil {
		return fmt.Errorf("failed to generate enrichment: %w", err)
	}

	enrichment, err := ParseEnrichment(reply)
	if err != nil {
		return err
	}
	return c.articles.UpdateEnrichment(ctx, article.ID, enrichment.Keywords, enrichment.MainCategory, enrichment.Summary)
}

// ParseEnrichment decodes and validates a model reply. The category must be
// one of the fixed taxonomy entries and summary and keywords must be present.
func ParseEnrichment(reply string) (*Enrichment, error) {
	reply = stripCodeFences(reply)

	var enrichment Enrichment
	if err := json.Unmarshal([]byte(reply), &enrichment); err != nil {
		return nil, fmt.Errorf("failed to parse enrichment reply: %w", err)
	}
	if len(enrichment.Keywords) == 0 {
		return nil, fmt.Errorf("enrichment reply has no keywords")
	}
	if strings.TrimSpace(enrichment.Summary) == "" {
		return nil, fmt.Errorf("enrichment reply has no summary")
	}
	if !validCategory(enrichment.MainCategory) {
		return nil, fmt.Errorf("enrichment reply has unknown category %q", enrichment.MainCategory)
	}
	return &enrichment, nil
}

func validCategory(category string) bool {
	for _, known := range Categories() {
		if category == known {
			return true
		}
	}
	return false
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
