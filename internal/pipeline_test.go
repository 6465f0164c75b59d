package internal

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
	"github.com/baalimago/lamb/internal/config"
	"github.com/baalimago/lamb/pkg/chain"
	"github.com/baalimago/lamb/pkg/models"
)

func TestBuildPipeline(t *testing.T) {
	p := Pipeline{Stages: []PipelineStage{
		{Template: "{a} {b}", Output: "keys", Keys: []string{"x", "y"}, InputKeys: []string{"a", "b"}, OutputKeys: []string{"first", "second"}},
		{Template: "{second}", Chat: true, System: "sys", InputKeys: []string{"second"}, OutputKeys: []string{"c"}},
	}}
	seq, kinds, err := buildPipeline(mockBackend(), config.Default, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testboil.FailTestIfDiff(t, len(kinds), 6)

	var out bytes.Buffer
	q := &pipelineQuerier{seq: seq, kinds: kinds, inputs: models.Pairs("a", "1", "b", "2"), out: &out}
	if err := q.Query(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testboil.FailTestIfDiff(t, out.String(), "a: 1\nb: 2\nfirst: 1\nsecond: 2\nc: 2\n")
}

func TestBuildPipeline_Errors(t *testing.T) {
	if _, _, err := buildPipeline(mockBackend(), config.Default, Pipeline{}); err == nil {
		t.Fatal("expected error for empty pipeline")
	}
	_, _, err := buildPipeline(mockBackend(), config.Default, Pipeline{Stages: []PipelineStage{{Template: "x", Output: "nope"}}})
	if err == nil {
		t.Fatal("expected error for unknown output")
	}
	testboil.AssertStringContains(t, err.Error(), "stage 0")
}

func TestPipelineQuerier_MissingKey(t *testing.T) {
	seq, kinds, err := buildPipeline(mockBackend(), config.Default, Pipeline{Stages: []PipelineStage{
		{Template: "{a}", InputKeys: []string{"a"}, OutputKeys: []string{"b"}},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logs := captureLogs(t)
	q := &pipelineQuerier{seq: seq, kinds: kinds, inputs: models.Pairs(), out: &bytes.Buffer{}}
	err = q.Query(context.Background())
	if !errors.Is(err, chain.ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey, got: %v", err)
	}
	testboil.FailTestIfDiff(t, logs.String(), "")
}
