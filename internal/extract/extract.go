// Package extract turns cleaned source-page HTML into article stubs via a
// structured-extraction completion call, with a markdown decoder as the
// fallback for replies that are not valid JSON.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"newsbrief/internal/core"
	"newsbrief/internal/llm"
	"newsbrief/internal/logger"
)

const (
	// MaxHTMLChars caps how much cleaned HTML is sent per completion call.
	MaxHTMLChars = 100000

	// extractionPromptTemplate instructs the model to return the article
	// list as a JSON array. The two %s verbs are the site root (used for
	// the absolute-link example) and the HTML itself.
	extractionPromptTemplate = `You are an AI that extracts structured data from raw HTML of a news portal.
Extract the following details for each news article:
- **Title**: the title of the article.
- **Publication Date**: If no date is explicitly given, return null.
- **Author**: the name(s) of the author(s).
- **Link**: the article's full hyperlink. If the hyperlink is relative, prepend the base URL (e.g., "%s") so that the result is an absolute URL starting with "http://" or "https://".
Extract this from the following HTML:
` + "```html\n%s\n```" + `
Return the result as a JSON array of objects, e.g.:
[{"Title": "Example", "Publication Date": "2023-01-01", "Author": "John Doe", "Link": "%sarticle1"}, ...]`
)

// RawArticle mirrors one object of the model's JSON reply.
type RawArticle struct {
	Title           string  `json:"Title"`
	PublicationDate *string `json:"Publication Date"`
	Author          *string `json:"Author"`
	Link            string  `json:"Link"`
}

// ParseOutcome is the tagged result of decoding a model reply: either the
// strict JSON array parsed, or the markdown fallback decoder produced the
// list, or nothing could be decoded and only the raw text remains.
type ParseOutcome struct {
	Articles []RawArticle
	Fallback bool   // true when the markdown decoder produced Articles
	Raw      string // original reply, kept for logging when decoding failed
}

// TextGenerator is the completion call the extractor depends on.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, options llm.TextGenerationOptions) (string, error)
}

// Extractor sends cleaned HTML to the LLM and decodes article stubs out of
// the reply.
type Extractor struct {
	generator    TextGenerator
	maxHTMLChars int
}

// New creates an Extractor. maxHTMLChars <= 0 selects the default cap.
func New(generator TextGenerator, maxHTMLChars int) *Extractor {
	if maxHTMLChars <= 0 {
		maxHTMLChars = MaxHTMLChars
	}
	return &Extractor{generator: generator, maxHTMLChars: maxHTMLChars}
}

// ExtractArticles returns the article stubs found on one source page.
// baseURL is the seed site, sourcePage the exact page the HTML came from.
// An error means the page yielded nothing; callers log it and continue with
// the rest of the batch.
func (e *Extractor) ExtractArticles(ctx context.Context, cleanedHTML, baseURL, sourcePage string) ([]core.ArticleStub, error) {
	if cleanedHTML == "" {
		return nil, fmt.Errorf("no HTML to extract from for %s", sourcePage)
	}

	truncated := cleanedHTML
	if len(truncated) > e.maxHTMLChars {
		truncated = truncated[:e.maxHTMLChars]
	}

	siteRoot := siteRootOf(baseURL)
	prompt := fmt.Sprintf(extractionPromptTemplate, siteRoot, truncated, siteRoot)

	reply, err := e.generator.GenerateText(ctx, prompt, llm.TextGenerationOptions{
		Temperature: 0.1,
		MaxTokens:   2000,
	})
	if err != nil {
		return nil, fmt.Errorf("extraction call failed for %s: %w", sourcePage, err)
	}

	outcome := ParseResponse(reply)
	if len(outcome.Articles) == 0 {
		logger.Warn("No articles decoded from extraction reply", "source_page", sourcePage, "fallback", outcome.Fallback)
		return nil, nil
	}
	if outcome.Fallback {
		logger.Info("Extraction reply was not JSON, markdown fallback used", "source_page", sourcePage)
	}

	stubs := make([]core.ArticleStub, 0, len(outcome.Articles))
	for _, raw := range outcome.Articles {
		link := strings.TrimSpace(raw.Link)
		if link == "" {
			continue
		}
		if !strings.HasPrefix(link, "http") {
			link = resolveLink(siteRoot, link)
		}
		stubs = append(stubs, core.ArticleStub{
			Title:           strings.TrimSpace(raw.Title),
			PublicationDate: raw.PublicationDate,
			Author:          raw.Author,
			Link:            link,
			BaseURL:         baseURL,
			SourcePage:      sourcePage,
		})
	}
	return stubs, nil
}

// ParseResponse decodes a model reply into article records. Markdown code
// fences are stripped first; a reply that does not start with a JSON array
// or object goes through the markdown-bullet fallback decoder instead.
func ParseResponse(reply string) ParseOutcome {
	text := stripCodeFences(strings.TrimSpace(reply))

	if !strings.HasPrefix(text, "[") && !strings.HasPrefix(text, "{") {
		return ParseOutcome{Articles: decodeMarkdownList(text), Fallback: true, Raw: reply}
	}

	var articles []RawArticle
	if err := json.Unmarshal([]byte(text), &articles); err != nil {
		logger.Warn("Failed to decode extraction JSON", "error", err.Error())
		return ParseOutcome{Raw: reply}
	}
	return ParseOutcome{Articles: articles}
}

// stripCodeFences removes a surrounding ``` or ```json fence if present.
func stripCodeFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// siteRootOf reduces a seed URL to scheme://host/ for relative-link
// resolution and the prompt's absolute-link example.
func siteRootOf(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return baseURL
	}
	return fmt.Sprintf("%s://%s/", u.Scheme, u.Host)
}

// resolveLink joins a relative link against the site root.
func resolveLink(siteRoot, link string) string {
	base, err := url.Parse(siteRoot)
	if err != nil {
		return link
	}
	ref, err := url.Parse(link)
	if err != nil {
		return link
	}
	return base.ResolveReference(ref).String()
}
