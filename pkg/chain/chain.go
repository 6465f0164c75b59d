// Package chain executes ordered pipelines of formatter, model and parser
// steps, and composes such pipelines into sequential stages that thread a
// growing key/value context.
//
// Chains are immutable after construction and hold no per-call state, so a
// single Chain may serve concurrent calls as long as its backends allow it.
package chain

import (
	"context"
	"fmt"
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/debug"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/baalimago/lamb/pkg/llm"
	"github.com/baalimago/lamb/pkg/models"
	"github.com/baalimago/lamb/pkg/parser"
	"github.com/baalimago/lamb/pkg/prompt"
)

// DefaultBinding is the placeholder a formatter binds a non-mapping value to.
const DefaultBinding = "text"

type Chain struct {
	steps []Step
	debug bool
}

// New validates every step. Steps must come from Format, Invoke or Parse.
func New(steps ...Step) (*Chain, error) {
	for i, s := range steps {
		if !s.valid() {
			return nil, fmt.Errorf("%w: step %d has kind %v", ErrInvalidStep, i, s.kind)
		}
	}
	return &Chain{
		steps: append([]Step(nil), steps...),
		debug: misc.Truthy(os.Getenv("DEBUG")) || misc.Truthy(os.Getenv("DEBUG_CHAIN")),
	}, nil
}

// Simple is the common template, model, parser pipeline.
func Simple(t prompt.Template, m llm.LanguageModel, p parser.Parser) (*Chain, error) {
	return New(Format(t), Invoke(m), Parse(p))
}

// Len returns the amount of steps.
func (c *Chain) Len() int {
	return len(c.steps)
}

// Kinds of the steps, in order.
func (c *Chain) Kinds() []StepKind {
	ret := make([]StepKind, 0, len(c.steps))
	for _, s := range c.steps {
		ret = append(ret, s.kind)
	}
	return ret
}

type callConfig struct {
	intermediate bool
	modelOpts    []llm.Option
}

type CallOption func(*callConfig)

// WithIntermediate collects the value after every step into
// Result.Intermediate.
func WithIntermediate() CallOption {
	return func(c *callConfig) {
		c.intermediate = true
	}
}

// WithModelOptions forwards opts to every model step.
func WithModelOptions(opts ...llm.Option) CallOption {
	return func(c *callConfig) {
		c.modelOpts = append(c.modelOpts, opts...)
	}
}

func newCallConfig(opts []CallOption) callConfig {
	var cfg callConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

type Result struct {
	Output models.Value
	// Intermediate is only set when requested with WithIntermediate.
	Intermediate []models.Value
}

// Call runs every step in order on a single running value. The first
// failing step aborts the call with a *StepExecutionError and no partial
// result.
func (c *Chain) Call(ctx context.Context, inputs models.Value, opts ...CallOption) (Result, error) {
	return c.call(ctx, inputs, newCallConfig(opts))
}

func (c *Chain) call(ctx context.Context, inputs models.Value, cfg callConfig) (Result, error) {
	current := inputs
	var trail []models.Value
	if cfg.intermediate {
		trail = make([]models.Value, 0, len(c.steps))
	}
	for i, step := range c.steps {
		next, err := c.runStep(ctx, step, current, cfg)
		if err != nil {
			return Result{}, &StepExecutionError{Index: i, Kind: step.kind, Err: err}
		}
		current = next
		if c.debug {
			ancli.PrintOK(fmt.Sprintf("chain step %d (%v): %v\n", i, step.kind, debug.IndentedJsonFmt(current)))
		}
		if cfg.intermediate {
			trail = append(trail, current)
		}
	}
	return Result{Output: current, Intermediate: trail}, nil
}

func (c *Chain) runStep(ctx context.Context, step Step, current models.Value, cfg callConfig) (models.Value, error) {
	switch step.kind {
	case StepFormatter:
		bindings, ok := current.Mapping()
		if !ok {
			bindings = models.NewMapping(models.Entry{Key: DefaultBinding, Value: current})
		}
		return step.formatter.Format(bindings)
	case StepModel:
		return step.model.Invoke(ctx, current, cfg.modelOpts...)
	case StepParser:
		return step.parser.Parse(current)
	default:
		return models.Value{}, ErrInvalidStep
	}
}
