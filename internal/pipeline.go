package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/baalimago/lamb/internal/config"
	"github.com/baalimago/lamb/internal/vendors"
	"github.com/baalimago/lamb/pkg/chain"
	"github.com/baalimago/lamb/pkg/models"
)

// Pipeline is the file format of the pipeline command. Stages run in order on a
// shared context seeded by Inputs.
type Pipeline struct {
	Inputs map[string]string `json:"inputs"`
	Stages []PipelineStage   `json:"stages"`
}

type PipelineStage struct {
	Template string `json:"template"`
	// Chat selects the chat model, with System as optional system prompt.
	Chat       bool     `json:"chat,omitempty"`
	System     string   `json:"system,omitempty"`
	Output     string   `json:"output,omitempty"`
	Keys       []string `json:"keys,omitempty"`
	InputKeys  []string `json:"input_keys"`
	OutputKeys []string `json:"output_keys"`
}

type pipelineQuerier struct {
	seq    *chain.Sequential
	kinds  []chain.StepKind
	inputs models.Mapping
	trail  bool
	out    io.Writer
}

func newPipelineQuerier(backend vendors.Backend, conf config.Configurations, f Flags, args []string) (*pipelineQuerier, error) {
	if len(args) == 0 {
		return nil, errors.New("pipeline requires the path to a pipeline file")
	}
	var p Pipeline
	if err := config.ReadAndUnmarshal(args[0], &p); err != nil {
		return nil, fmt.Errorf("failed to load pipeline: %w", err)
	}
	seq, kinds, err := buildPipeline(backend, conf, p)
	if err != nil {
		return nil, err
	}

	// Go maps carry no order, the context starts out sorted by key
	inputs, err := models.Of(p.Inputs)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline inputs: %w", err)
	}
	base, _ := inputs.Mapping()
	if text := strings.Join(args[1:], " "); text != "" {
		base = base.With(chain.DefaultBinding, models.Text(text))
	}
	bindings, err := bindVars(base, f.Vars)
	if err != nil {
		return nil, err
	}
	return &pipelineQuerier{
		seq:    seq,
		kinds:  kinds,
		inputs: bindings,
		trail:  f.Trail,
		out:    os.Stdout,
	}, nil
}

func buildPipeline(backend vendors.Backend, conf config.Configurations, p Pipeline) (*chain.Sequential, []chain.StepKind, error) {
	if len(p.Stages) == 0 {
		return nil, nil, errors.New("pipeline has no stages")
	}
	stages := make([]chain.Stage, 0, len(p.Stages))
	var kinds []chain.StepKind
	for i, st := range p.Stages {
		output := st.Output
		if output == "" {
			output = "list"
		}
		var c *chain.Chain
		var err error
		if st.Chat {
			c, err = newChatChain(backend, conf, st.Template, st.System, output, st.Keys)
		} else {
			c, err = newCompletionChain(backend, conf, st.Template, output, st.Keys)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build stage %d: %w", i, err)
		}
		stages = append(stages, chain.Stage{Chain: c, InputKeys: st.InputKeys, OutputKeys: st.OutputKeys})
		kinds = append(kinds, c.Kinds()...)
	}
	seq, err := chain.NewSequential(stages...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create pipeline: %w", err)
	}
	return seq, kinds, nil
}

func (q *pipelineQuerier) Query(ctx context.Context) error {
	var opts []chain.CallOption
	if q.trail {
		opts = append(opts, chain.WithIntermediate())
	}
	start := time.Now()
	res, err := q.seq.Call(ctx, q.inputs, opts...)
	if err != nil {
		slog.Debug("pipeline_failed", "error", err)
		return fmt.Errorf("failed to run pipeline: %w", err)
	}
	slog.Debug("pipeline_done", "steps", len(q.kinds), "duration", time.Since(start))
	if q.trail {
		printTrail(q.out, q.kinds, res.Intermediate)
	}
	printValue(q.out, res.Output)
	return nil
}
