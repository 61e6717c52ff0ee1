package pipeline

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"newsbrief/internal/core"
)

type recordingStage struct {
	name string
	log  *[]string
	err  error
}

func (s *recordingStage) Run(ctx context.Context) error {
	*s.log = append(*s.log, s.name)
	return s.err
}

type recordingComposer struct {
	log *[]string
}

func (c *recordingComposer) Run(ctx context.Context) (*core.Edition, error) {
	*c.log = append(*c.log, "compose")
	return &core.Edition{ID: 1}, nil
}

type recordingRenderer struct {
	log *[]string
}

func (r *recordingRenderer) Run(ctx context.Context) (string, error) {
	*r.log = append(*r.log, "render")
	return "<html></html>", nil
}

func newTestPipeline(log *[]string, sender stage) *Pipeline {
	return New(
		&recordingStage{name: "scrape", log: log},
		&recordingStage{name: "backfill", log: log},
		&recordingStage{name: "normalize", log: log},
		&recordingStage{name: "categorize", log: log},
		&recordingStage{name: "score", log: log},
		&recordingComposer{log: log},
		&recordingRenderer{log: log},
		sender,
	)
}

func TestRunExecutesStagesInOrder(t *testing.T) {
	var log []string
	p := newTestPipeline(&log, &recordingStage{name: "send", log: &log})

	if err := p.Run(context.Background(), Options{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{"scrape", "backfill", "normalize", "categorize", "score", "compose", "render", "send"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("stage order = %v, want %v", log, want)
	}
}

func TestRunSkipSendStopsAfterRender(t *testing.T) {
	var log []string
	p := newTestPipeline(&log, &recordingStage{name: "send", log: &log})

	if err := p.Run(context.Background(), Options{SkipSend: true}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(log) != 7 || log[len(log)-1] != "render" {
		t.Errorf("stages = %v, want run to stop after render", log)
	}
}

func TestRunWithoutSenderStopsAfterRender(t *testing.T) {
	var log []string
	p := newTestPipeline(&log, nil)

	if err := p.Run(context.Background(), Options{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if log[len(log)-1] != "render" {
		t.Errorf("stages = %v, want run to stop after render", log)
	}
}

func TestRunStopsOnFirstFailure(t *testing.T) {
	var log []string
	p := New(
		&recordingStage{name: "scrape", log: &log},
		&recordingStage{name: "backfill", log: &log, err: errors.New("backfill broke")},
		&recordingStage{name: "normalize", log: &log},
		&recordingStage{name: "categorize", log: &log},
		&recordingStage{name: "score", log: &log},
		&recordingComposer{log: &log},
		&recordingRenderer{log: &log},
		nil,
	)

	err := p.Run(context.Background(), Options{})
	if err == nil {
		t.Fatal("expected error from failing stage")
	}
	want := []string{"scrape", "backfill"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("stages = %v, want %v", log, want)
	}
}
