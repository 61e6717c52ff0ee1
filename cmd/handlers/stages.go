package handlers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Collect article stubs from the configured news pages",
		Long: `Fetch every configured source page, extract article metadata with the
LLM, and store new article stubs. Articles whose title already exists are
skipped.

Example:
  newsbrief scrape`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd.Context())
		},
	}
}

// NewBackfillCmd creates the backfill command.
func NewBackfillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backfill",
		Short: "Retrieve full article text for collected stubs",
		Long: `Fetch each stub article's page and extract its readable body text.
Articles without usable body text are removed. Author and publication date
are filled in where the listing page did not provide them.

Example:
  newsbrief backfill`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackfill(cmd.Context())
		},
	}
}

// NewNormalizeCmd creates the normalize command.
func NewNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize",
		Short: "Normalize stored publication dates to YYYY-MM-DD",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(cmd.Context())
		},
	}
}

// NewCategorizeCmd creates the categorize command.
func NewCategorizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categorize",
		Short: "Extract keywords, category, and summary for backfilled articles",
		Long: `Run the enrichment model over every article that still lacks keywords,
a category, or a summary. Articles whose reply cannot be validated are
skipped and retried on the next run.

Example:
  newsbrief categorize`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCategorize(cmd.Context())
		},
	}
}

// NewScoreCmd creates the score command.
func NewScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Assign influence scores to enriched articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.Context())
		},
	}
}

func runScrape(ctx context.Context) error {
	builder, err := newBuilder()
	if err != nil {
		return err
	}
	defer builder.Close()

	scraper, err := builder.Scraper()
	if err != nil {
		return err
	}
	return scraper.Run(ctx)
}

func runBackfill(ctx context.Context) error {
	builder, err := newBuilder()
	if err != nil {
		return err
	}
	defer builder.Close()

	return builder.Backfiller().Run(ctx)
}

func runNormalize(ctx context.Context) error {
	builder, err := newBuilder()
	if err != nil {
		return err
	}
	defer builder.Close()

	return builder.Normalizer().Run(ctx)
}

func runCategorize(ctx context.Context) error {
	builder, err := newBuilder()
	if err != nil {
		return err
	}
	defer builder.Close()

	categorizer, err := builder.Categorizer()
	if err != nil {
		return err
	}
	return categorizer.Run(ctx)
}

func runScore(ctx context.Context) error {
	builder, err := newBuilder()
	if err != nil {
		return err
	}
	defer builder.Close()

	scorer, err := builder.Scorer()
	if err != nil {
		return err
	}
	if err := scorer.Run(ctx); err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}
	return nil
}
