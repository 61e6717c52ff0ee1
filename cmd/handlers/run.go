package handlers

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"newsbrief/internal/config"
	"newsbrief/internal/logger"
	"newsbrief/internal/pipeline"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	var (
		schedule bool
		skipSend bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline, once or on a schedule",
		Long: `Execute every pipeline stage in order: scrape, backfill, normalize,
categorize, score, compose, render, and send.

By default the pipeline runs once and exits. With --schedule, the process
stays up and runs the pipeline on the configured cron expression
(schedule.cron, default "0 6 * * *") until interrupted.

Examples:
  newsbrief run
  newsbrief run --skip-send
  newsbrief run --schedule`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), schedule, skipSend)
		},
	}

	cmd.Flags().BoolVar(&schedule, "schedule", false, "keep running on the configured cron schedule")
	cmd.Flags().BoolVar(&skipSend, "skip-send", false, "stop after rendering, do not email subscribers")

	return cmd
}

func runPipeline(ctx context.Context, schedule, skipSend bool) error {
	builder, err := newBuilder()
	if err != nil {
		return err
	}
	defer builder.Close()

	p, err := builder.Build()
	if err != nil {
		return err
	}
	opts := pipeline.Options{SkipSend: skipSend}

	if !schedule {
		return p.Run(ctx, opts)
	}
	return runScheduled(ctx, p, opts)
}

// runScheduled blocks and runs the pipeline on the configured cron schedule
// until the process is interrupted. A run that fails is logged; the schedule
// keeps going.
func runScheduled(ctx context.Context, p *pipeline.Pipeline, opts pipeline.Options) error {
	log := logger.Get()
	spec := config.Get().Schedule.Cron

	scheduler := cron.New()
	entryID, err := scheduler.AddFunc(spec, func() {
		if err := p.Run(ctx, opts); err != nil {
			log.Error("Scheduled pipeline run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	scheduler.Start()
	defer scheduler.Stop()
	log.Info("Scheduler started", "cron", spec, "next_run", scheduler.Entry(entryID).Next)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case sig := <-stop:
		log.Info("Shutting down scheduler", "signal", sig.String())
		return nil
	}
}
