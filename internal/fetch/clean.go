package fetch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Tags that never carry article-list content and only inflate the HTML sent
// to the LLM.
const nonContentSelector = "script, style, noscript, iframe, svg, path, object, embed, picture, video, audio, source, input, ins, del, form, button"

var (
	interTagWhitespace = regexp.MustCompile(`>\s+<`)
	newlineRuns        = regexp.MustCompile(`\n+`)
	spaceRuns          = regexp.MustCompile(`\s{2,}`)
)

// Clean strips non-content markup from a source page: scripts, styles, media
// embeds, tags left with no visible text, and every attribute except anchor
// hrefs, then collapses whitespace. It is a pure function and idempotent, so
// cleaning already-cleaned HTML is a no-op.
func Clean(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(nonContentSelector).Remove()

	// Drop tags that contain no visible text once scripts and media are gone.
	doc.Find("body *").Each(func(_ int, s *goquery.Selection) {
		if strings.TrimSpace(s.Text()) == "" {
			s.Remove()
		}
	})

	// Strip attributes; only anchor hrefs survive, they feed link resolution.
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, node := range s.Nodes {
			kept := node.Attr[:0]
			for _, attr := range node.Attr {
				if node.Data == "a" && attr.Key == "href" {
					kept = append(kept, attr)
				}
			}
			node.Attr = kept
		}
	})

	cleaned, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialize cleaned HTML: %w", err)
	}

	cleaned = interTagWhitespace.ReplaceAllString(cleaned, "><")
	cleaned = newlineRuns.ReplaceAllString(cleaned, "")
	cleaned = spaceRuns.ReplaceAllString(cleaned, " ")
	return cleaned, nil
}
