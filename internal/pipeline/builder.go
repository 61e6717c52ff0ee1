package pipeline

import (
	"fmt"
	"io"

	"newsbrief/internal/backfill"
	"newsbrief/internal/categorize"
	"newsbrief/internal/compose"
	"newsbrief/internal/config"
	"newsbrief/internal/email"
	"newsbrief/internal/extract"
	"newsbrief/internal/fetch"
	"newsbrief/internal/llm"
	"newsbrief/internal/logger"
	"newsbrief/internal/normalize"
	"newsbrief/internal/persistence"
	"newsbrief/internal/render"
	"newsbrief/internal/scrape"
	"newsbrief/internal/score"
)

// Builder assembles the pipeline stages from configuration. Every stage
// shares one database handle and one LLM client per model.
type Builder struct {
	cfg *config.Config
	db  *persistence.PostgresDB

	closers []io.Closer
}

// NewBuilder opens the database connection and prepares stage construction.
func NewBuilder(cfg *config.Config) (*Builder, error) {
	dbURL, err := cfg.RequireDatabase()
	if err != nil {
		return nil, err
	}
	db, err := persistence.NewPostgresDB(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	b := &Builder{cfg: cfg, db: db}
	b.closers = append(b.closers, db)
	return b, nil
}

// DB exposes the shared database handle for commands that talk to the store
// directly.
func (b *Builder) DB() *persistence.PostgresDB {
	return b.db
}

// Close releases every resource the builder opened, in reverse order.
func (b *Builder) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i].Close(); err != nil {
			logger.Warn("Failed to close pipeline resource", "error", err)
		}
	}
}

// Scraper builds the collection stage.
func (b *Builder) Scraper() (*scrape.Scraper, error) {
	var browser fetch.PageFetcher
	if b.cfg.Scrape.BrowserFallback {
		browserFetcher, err := fetch.NewBrowserFetcher()
		if err != nil {
			return nil, fmt.Errorf("failed to start browser fallback: %w", err)
		}
		browser = browserFetcher
		b.closers = append(b.closers, browserFetcher)
	}
	fetcher := fetch.New(b.cfg.ScrapeTimeout(), b.cfg.Scrape.UserAgent, browser)

	client, err := llm.NewClient(b.cfg.AI.Gemini.Model)
	if err != nil {
		return nil, err
	}
	extractor := extract.New(client, b.cfg.Scrape.MaxHTMLChars)

	return scrape.New(fetcher, extractor, b.db.Articles(), b.cfg.Scrape.Sources), nil
}

// Backfiller builds the full-text retrieval stage.
func (b *Builder) Backfiller() *backfill.Backfiller {
	extractor := backfill.NewReadabilityExtractor(b.cfg.BackfillTimeout())
	return backfill.New(b.db.Articles(), extractor, b.cfg.Backfill.MinBodyChars)
}

// Normalizer builds the date-normalization stage.
func (b *Builder) Normalizer() *normalize.Normalizer {
	return normalize.NewNormalizer(b.db.Articles())
}

// Categorizer builds the enrichment stage.
func (b *Builder) Categorizer() (*categorize.Categorizer, error) {
	client, err := llm.NewClient(b.cfg.AI.Gemini.Model)
	if err != nil {
		return nil, err
	}
	return categorize.New(client, b.db.Articles()), nil
}

// Scorer builds the influence-scoring stage on the cheaper scoring model.
func (b *Builder) Scorer() (*score.Scorer, error) {
	client, err := llm.NewClient(b.cfg.AI.Gemini.ScoreModel)
	if err != nil {
		return nil, err
	}
	return score.New(client, b.db.Articles()), nil
}

// Composer builds the edition-composition stage.
func (b *Builder) Composer() (*compose.Composer, error) {
	client, err := llm.NewClient(b.cfg.AI.Gemini.Model)
	if err != nil {
		return nil, err
	}
	return compose.New(client, b.db.Articles(), b.db.Editions(),
		b.cfg.Newsletter.WindowDays, b.cfg.Newsletter.TopCount), nil
}

// Renderer builds the HTML rendering stage.
func (b *Builder) Renderer() *render.Renderer {
	return render.New(b.db.Articles(), b.db.Editions(), render.Options{
		RedirectLink: b.cfg.Newsletter.RedirectLink,
		ContactPhone: b.cfg.Newsletter.ContactPhone,
		ContactMail:  b.cfg.Newsletter.ContactMail,
		ContactWeb:   b.cfg.Newsletter.ContactWeb,
	})
}

// Sender builds the delivery stage, or returns nil when SMTP is not
// configured.
func (b *Builder) Sender() (*email.Sender, error) {
	if b.cfg.Email.SMTP.Host == "" {
		return nil, nil
	}
	return email.NewSender(email.SMTPConfig{
		Host:     b.cfg.Email.SMTP.Host,
		Port:     b.cfg.Email.SMTP.Port,
		Username: b.cfg.Email.SMTP.Username,
		Password: b.cfg.Email.SMTP.Password,
	}, b.cfg.Email.FromAddress, b.cfg.Email.FromName, "",
		b.db.Editions(), b.db.Subscribers())
}

// Build assembles the full pipeline.
func (b *Builder) Build() (*Pipeline, error) {
	scraper, err := b.Scraper()
	if err != nil {
		return nil, err
	}
	categorizer, err := b.Categorizer()
	if err != nil {
		return nil, err
	}
	scorer, err := b.Scorer()
	if err != nil {
		return nil, err
	}
	composer, err := b.Composer()
	if err != nil {
		return nil, err
	}
	sender, err := b.Sender()
	if err != nil {
		return nil, err
	}

	var senderStage stage
	if sender != nil {
		senderStage = sender
	}
	return New(scraper, b.Backfiller(), b.Normalizer(), categorizer, scorer,
		composer, b.Renderer(), senderStage), nil
}
