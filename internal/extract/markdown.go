package extract

import (
	"regexp"
	"strings"
)

// The markdown fallback decodes replies shaped as a numbered list with bold
// field bullets, the format models drift into when they ignore the JSON
// instruction:
//
//	1. **Title**: Example headline
//	   - **Publication Date**: 2023-01-01
//	   - **Author**: Jane Doe
//	   - **Link**: https://example.com/article
var (
	blockSplitRegex = regexp.MustCompile(`\n(?:\s*\n)?(\d+\.)`)
	titleRegex      = regexp.MustCompile(`\d+\.\s*\*\*Title\*\*:\s*(.*)`)
	pubDateRegex    = regexp.MustCompile(`-\s*\*\*Publication Date\*\*:\s*(.*)`)
	authorRegex     = regexp.MustCompile(`-\s*\*\*Author\*\*:\s*(.*)`)
	linkRegex       = regexp.MustCompile(`-\s*\*\*Link\*\*:\s*(.*)`)
)

// decodeMarkdownList extracts article records from a numbered markdown list.
// Blocks without both a title and a link are dropped.
func decodeMarkdownList(text string) []RawArticle {
	var articles []RawArticle
	for _, block := range splitNumberedBlocks(text) {
		titleMatch := titleRegex.FindStringSubmatch(block)
		linkMatch := linkRegex.FindStringSubmatch(block)
		if titleMatch == nil || linkMatch == nil {
			continue
		}

		article := RawArticle{
			Title: strings.TrimSpace(titleMatch[1]),
			Link:  strings.TrimSpace(linkMatch[1]),
		}
		if m := pubDateRegex.FindStringSubmatch(block); m != nil {
			article.PublicationDate = optionalField(m[1])
		}
		if m := authorRegex.FindStringSubmatch(block); m != nil {
			article.Author = optionalField(m[1])
		}
		if article.Link == "" {
			continue
		}
		articles = append(articles, article)
	}
	return articles
}

// splitNumberedBlocks splits the reply at every line starting a new numbered
// item, keeping the item number with its block.
func splitNumberedBlocks(text string) []string {
	indexes := blockSplitRegex.FindAllStringSubmatchIndex(text, -1)
	if len(indexes) == 0 {
		return []string{strings.TrimSpace(text)}
	}

	var blocks []string
	start := 0
	for _, idx := range indexes {
		// idx[2] is where the item number begins
		if idx[2] > start {
			blocks = append(blocks, strings.TrimSpace(text[start:idx[2]]))
		}
		start = idx[2]
	}
	blocks = append(blocks, strings.TrimSpace(text[start:]))
	return blocks
}

// optionalField maps placeholder values a model writes for missing data to
// nil, matching what the JSON path produces for a null field.
func optionalField(value string) *string {
	v := strings.TrimSpace(value)
	switch strings.ToLower(v) {
	case "", "null", "none", "n/a":
		return nil
	}
	return &v
}
