// Package pipeline wires the pipeline stages together and runs them in
// order. Each stage re-queries the store for its pending rows, so the
// sequence is restartable at any point.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"newsbrief/internal/core"
	"newsbrief/internal/logger"
)

// stage is a pipeline step that reads and writes through the store.
type stage interface {
	Run(ctx context.Context) error
}

// composer creates a newsletter edition from the scored articles.
type composer interface {
	Run(ctx context.Context) (*core.Edition, error)
}

// renderer renders the latest edition to HTML.
type renderer interface {
	Run(ctx context.Context) (string, error)
}

// Pipeline runs the full scrape-to-send sequence.
type Pipeline struct {
	scraper     stage
	backfiller  stage
	normalizer  stage
	categorizer stage
	scorer      stage
	composer    composer
	renderer    renderer
	sender      stage
}

// New creates a Pipeline. sender may be nil when delivery is not configured;
// Run then stops after rendering.
func New(scraper, backfiller, normalizer, categorizer, scorer stage, composer composer, renderer renderer, sender stage) *Pipeline {
	return &Pipeline{
		scraper:     scraper,
		backfiller:  backfiller,
		normalizer:  normalizer,
		categorizer: categorizer,
		scorer:      scorer,
		composer:    composer,
		renderer:    renderer,
		sender:      sender,
	}
}

// Options controls a single pipeline run.
type Options struct {
	// SkipSend stops the run after rendering even when a sender exists.
	SkipSend bool
}

// Run executes every stage in order and fails on the first stage error.
func (p *Pipeline) Run(ctx context.Context, opts Options) error {
	// A run id ties the stage logs of one run together across restarts.
	log := logger.Get().With("run_id", uuid.NewString())
	started := time.Now()

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"scrape", p.scraper.Run},
		{"backfill", p.backfiller.Run},
		{"normalize", p.normalizer.Run},
		{"categorize", p.categorizer.Run},
		{"score", p.scorer.Run},
		{"compose", func(ctx context.Context) error {
			_, err := p.composer.Run(ctx)
			return err
		}},
		{"render", func(ctx context.Context) error {
			_, err := p.renderer.Run(ctx)
			return err
		}},
	}
	if p.sender != nil && !opts.SkipSend {
		steps = append(steps, struct {
			name string
			run  func(context.Context) error
		}{"send", p.sender.Run})
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		stepStart := time.Now()
		log.Info("Pipeline stage starting", "stage", step.name)
		if err := step.run(ctx); err != nil {
			return fmt.Errorf("pipeline stage %s failed: %w", step.name, err)
		}
		log.Info("Pipeline stage finished", "stage", step.name, "duration", time.Since(stepStart).String())
	}

	log.Info("Pipeline run complete", "duration", time.Since(started).String())
	return nil
}
