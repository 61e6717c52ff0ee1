package handlers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewComposeCmd creates the compose command.
func NewComposeCmd() *cobra.Command {
	var renderOnly bool

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose a newsletter edition from the top-scored articles",
		Long: `Select the highest-scored articles from the trailing window, generate
the introduction, edition title, and top story, persist the edition, and
render the final HTML document.

With --render-only, no new edition is composed; the most recent edition is
re-rendered from the database instead. Rendering makes no model calls, so
this replays the existing edition after template or branding changes.

Examples:
  newsbrief compose
  newsbrief compose --render-only`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompose(cmd.Context(), renderOnly)
		},
	}

	cmd.Flags().BoolVar(&renderOnly, "render-only", false, "re-render the latest edition without composing a new one")

	return cmd
}

func runCompose(ctx context.Context, renderOnly bool) error {
	builder, err := newBuilder()
	if err != nil {
		return err
	}
	defer builder.Close()

	if !renderOnly {
		composer, err := builder.Composer()
		if err != nil {
			return err
		}
		edition, err := composer.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Composed edition %d (%q, number %d) with %d articles\n",
			edition.ID, edition.NewsletterTitle, edition.EditionNumber, len(edition.SelectedIDs))
	}

	if _, err := builder.Renderer().Run(ctx); err != nil {
		return err
	}
	fmt.Println("Newsletter rendered and stored")
	return nil
}
