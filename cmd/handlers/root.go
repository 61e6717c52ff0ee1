// Package handlers defines the CLI commands. Each pipeline stage gets its
// own command so stages can be run and re-run independently; the run command
// executes the whole sequence, once or on a schedule.
package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"newsbrief/internal/config"
	"newsbrief/internal/pipeline"
)

var cfgFile string

// NewRootCmd creates the base command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "newsbrief",
		Short: "newsbrief scrapes AI news, curates it with an LLM, and mails the newsletter",
		Long: `newsbrief is a newsletter pipeline. It scrapes configured news pages,
extracts article metadata with an LLM, retrieves full article text, enriches
and scores each article, composes a newsletter edition from the top stories,
renders it to HTML, and delivers it to subscribers over SMTP.

Each stage persists its output, so stages can be run separately and a failed
run resumes where it left off.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := config.Load(cfgFile)
			return err
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./newsbrief.yaml)")

	rootCmd.AddCommand(NewScrapeCmd())
	rootCmd.AddCommand(NewBackfillCmd())
	rootCmd.AddCommand(NewNormalizeCmd())
	rootCmd.AddCommand(NewCategorizeCmd())
	rootCmd.AddCommand(NewScoreCmd())
	rootCmd.AddCommand(NewComposeCmd())
	rootCmd.AddCommand(NewSendCmd())
	rootCmd.AddCommand(NewRunCmd())
	rootCmd.AddCommand(NewSubscribersCmd())
	rootCmd.AddCommand(NewMigrateCmd())

	return rootCmd
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newBuilder assembles pipeline stages for the current configuration.
func newBuilder() (*pipeline.Builder, error) {
	return pipeline.NewBuilder(config.Get())
}
