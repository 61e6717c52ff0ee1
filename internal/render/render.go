// Package render turns a persisted newsletter edition into the final HTML
// email document. Rendering reads only from the database, so an edition can
// be re-rendered at any time without new model calls.
package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"math"
	"strings"

	"newsbrief/internal/core"
	"newsbrief/internal/logger"
	"newsbrief/internal/normalize"
)

// EmailPlaceholder is substituted per recipient by the delivery stage. It is
// written into the rendered document's preference-management link.
const EmailPlaceholder = "{EMAIL}"

// wordsPerMinute is the reading speed behind the READ MORE estimates.
const wordsPerMinute = 170

// ReadingTime estimates reading time in whole minutes, never below one.
func ReadingTime(text string) int {
	words := len(strings.Fields(text))
	return int(math.Max(1, math.Round(float64(words)/wordsPerMinute)))
}

// Options carries the branding around the article content.
type Options struct {
	BrandName      string
	RedirectLink   string
	ContactPhone   string
	ContactMail    string
	ContactWeb     string
	PreferencesURL string
	FooterLine     string
	FooterAddress  string
}

// DefaultOptions returns the stock branding.
func DefaultOptions() Options {
	return Options{
		BrandName:      "DEEPTECH DIGEST",
		RedirectLink:   "https://www.homesmartify.lu",
		ContactPhone:   "+352 661777082",
		ContactMail:    "info@homesmartify.lu",
		ContactWeb:     "https://www.homesmartify.lu",
		PreferencesURL: "https://www.ainewsletter.homesmartify.lu/",
		FooterLine:     "Transforming Technology: Where Smart Technology Meets Caring Comfort.",
		FooterAddress:  "Luxembourg City, Luxembourg 1329",
	}
}

// ArticleStore is the slice of the article repository this stage needs.
type ArticleStore interface {
	Get(ctx context.Context, id int64) (*core.Article, error)
	GetByIDs(ctx context.Context, ids []int64) ([]core.Article, error)
}

// EditionStore is the slice of the edition repository this stage needs.
type EditionStore interface {
	Latest(ctx context.Context) (*core.Edition, error)
	UpdateHTML(ctx context.Context, id int64, html string) error
}

// Renderer renders the most recent edition.
type Renderer struct {
	articles ArticleStore
	editions EditionStore
	opts     Options
}

// New creates a Renderer. Zero-value option fields fall back to the stock
// branding.
func New(articles ArticleStore, editions EditionStore, opts Options) *Renderer {
	defaults := DefaultOptions()
	if opts.BrandName == "" {
		opts.BrandName = defaults.BrandName
	}
	if opts.RedirectLink == "" {
		opts.RedirectLink = defaults.RedirectLink
	}
	if opts.ContactPhone == "" {
		opts.ContactPhone = defaults.ContactPhone
	}
	if opts.ContactMail == "" {
		opts.ContactMail = defaults.ContactMail
	}
	if opts.ContactWeb == "" {
		opts.ContactWeb = defaults.ContactWeb
	}
	if opts.PreferencesURL == "" {
		opts.PreferencesURL = defaults.PreferencesURL
	}
	if opts.FooterLine == "" {
		opts.FooterLine = defaults.FooterLine
	}
	if opts.FooterAddress == "" {
		opts.FooterAddress = defaults.FooterAddress
	}
	return &Renderer{articles: articles, editions: editions, opts: opts}
}

// articleView is one rendered article block.
type articleView struct {
	Title           string
	PublicationDate string
	Summary         string
	Link            string
	ReadTime        int
}

// pageData feeds the newsletter template.
type pageData struct {
	IssueNo         int64
	EditionNumber   int
	Date            string
	BrandName       string
	NewsletterTitle string
	Introduction    string
	Articles        []articleView
	TopNews         articleView
	TopNewsText     string
	RedirectLink    string
	ContactPhone    string
	ContactMail     string
	ContactWeb      string
	PreferencesLink template.URL
	FooterLine      string
	FooterAddress   string
}

// Run renders the latest edition, stores the document on the edition row, and
// returns it. The top story is rendered in its own section and removed from
// the regular article list.
func (r *Renderer) Run(ctx context.Context) (string, error) {
	log := logger.Get()

	edition, err := r.editions.Latest(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load edition for rendering: %w", err)
	}

	topArticle, err := r.articles.Get(ctx, edition.TopNewsID)
	if err != nil {
		return "", fmt.Errorf("failed to load top article %d: %w", edition.TopNewsID, err)
	}

	var remainingIDs []int64
	for _, id := range edition.SelectedIDs {
		if id != edition.TopNewsID {
			remainingIDs = append(remainingIDs, id)
		}
	}
	remaining, err := r.articles.GetByIDs(ctx, remainingIDs)
	if err != nil {
		return "", fmt.Errorf("failed to load edition articles: %w", err)
	}

	data := pageData{
		IssueNo:         edition.ID,
		EditionNumber:   edition.EditionNumber,
		Date:            edition.Creation.Format(normalize.DateLayout),
		BrandName:       r.opts.BrandName,
		NewsletterTitle: edition.NewsletterTitle,
		Introduction:    edition.Introduction,
		TopNews:         toView(*topArticle),
		TopNewsText:     edition.TopNews,
		RedirectLink:    r.opts.RedirectLink,
		ContactPhone:    r.opts.ContactPhone,
		ContactMail:     r.opts.ContactMail,
		ContactWeb:      r.opts.ContactWeb,
		// template.URL keeps the recipient placeholder verbatim; href
		// escaping would otherwise mangle the braces.
		PreferencesLink: template.URL(r.opts.PreferencesURL + "?email=" + EmailPlaceholder),
		FooterLine:      r.opts.FooterLine,
		FooterAddress:   r.opts.FooterAddress,
	}
	for _, article := range remaining {
		data.Articles = append(data.Articles, toView(article))
	}

	var buf bytes.Buffer
	if err := newsletterTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render newsletter: %w", err)
	}
	html := buf.String()

	if err := r.editions.UpdateHTML(ctx, edition.ID, html); err != nil {
		return "", fmt.Errorf("failed to store rendered newsletter: %w", err)
	}
	log.Info("Newsletter rendered", "edition_id", edition.ID, "articles", len(data.Articles)+1)
	return html, nil
}

func toView(article core.Article) articleView {
	view := articleView{Title: article.Title, Link: article.Link}
	if article.PublicationDate != nil {
		view.PublicationDate = *article.PublicationDate
	}
	if article.Summary != nil {
		view.Summary = *article.Summary
	}
	body := ""
	if article.Body != nil {
		body = *article.Body
	}
	view.ReadTime = ReadingTime(article.Title + body)
	return view
}
