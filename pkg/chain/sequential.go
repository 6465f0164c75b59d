package chain

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/baalimago/lamb/pkg/models"
)

// Stage is a sub-chain with the context keys it reads and the keys its
// output is written to.
type Stage struct {
	Chain      *Chain
	InputKeys  []string
	OutputKeys []string
}

type Sequential struct {
	stages []Stage
	debug  bool
}

func NewSequential(stages ...Stage) (*Sequential, error) {
	cpy := make([]Stage, 0, len(stages))
	for i, st := range stages {
		if st.Chain == nil {
			return nil, fmt.Errorf("stage %d has no chain", i)
		}
		cpy = append(cpy, Stage{
			Chain:      st.Chain,
			InputKeys:  append([]string(nil), st.InputKeys...),
			OutputKeys: append([]string(nil), st.OutputKeys...),
		})
	}
	return &Sequential{
		stages: cpy,
		debug:  misc.Truthy(os.Getenv("DEBUG")) || misc.Truthy(os.Getenv("DEBUG_CHAIN")),
	}, nil
}

// NewSequentialFromKeys pairs chains positionally with their input and
// output key lists, which must all have the same length.
func NewSequentialFromKeys(chains []*Chain, inputKeys, outputKeys [][]string) (*Sequential, error) {
	if len(chains) != len(inputKeys) || len(chains) != len(outputKeys) {
		return nil, errors.New("chains, input keys and output keys must have the same length")
	}
	stages := make([]Stage, 0, len(chains))
	for i, c := range chains {
		stages = append(stages, Stage{Chain: c, InputKeys: inputKeys[i], OutputKeys: outputKeys[i]})
	}
	return NewSequential(stages...)
}

// Call threads inputs through every stage. Each stage receives the
// projection of the context onto its input keys, and its output, read as a
// sequence, is zipped with its output keys and merged into the context.
// When the lengths differ pairing stops at the shorter side. Result.Output
// is the final context as a mapping.
func (s *Sequential) Call(ctx context.Context, inputs models.Mapping, opts ...CallOption) (Result, error) {
	cfg := newCallConfig(opts)
	state := inputs
	var trail []models.Value
	for i, st := range s.stages {
		proj := make([]models.Entry, 0, len(st.InputKeys))
		for _, k := range st.InputKeys {
			v, ok := state.Get(k)
			if !ok {
				return Result{}, &MissingKeyError{Stage: i, Key: k}
			}
			proj = append(proj, models.Entry{Key: k, Value: v})
		}

		res, err := st.Chain.call(ctx, models.FromMapping(models.NewMapping(proj...)), cfg)
		if err != nil {
			return Result{}, fmt.Errorf("failed to run stage %d: %w", i, err)
		}
		if cfg.intermediate {
			trail = append(trail, res.Intermediate...)
		}

		outs := asSequence(res.Output)
		if s.debug && len(outs) != len(st.OutputKeys) {
			ancli.PrintWarn(fmt.Sprintf("stage %d produced %d values for %d output keys, pairing stops at the shorter\n", i, len(outs), len(st.OutputKeys)))
		}
		for j := range min(len(outs), len(st.OutputKeys)) {
			state = state.With(st.OutputKeys[j], outs[j])
		}
	}
	return Result{Output: models.FromMapping(state), Intermediate: trail}, nil
}

// asSequence reads a mapping as its values and any other non-sequence as a
// single element.
func asSequence(v models.Value) []models.Value {
	if seq, ok := v.Sequence(); ok {
		return seq
	}
	if m, ok := v.Mapping(); ok {
		return m.Values()
	}
	return []models.Value{v}
}
