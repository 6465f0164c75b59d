package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
	"github.com/baalimago/lamb/pkg/llm"
	"github.com/baalimago/lamb/pkg/models"
	"github.com/baalimago/lamb/pkg/parser"
	"github.com/baalimago/lamb/pkg/prompt"
)

// upper completes by upper casing the prompt
func upper() *llm.CompletionModel {
	return llm.NewCompletionModel(llm.CompletionFunc(func(ctx context.Context, req llm.CompletionRequest) (string, error) {
		return strings.ToUpper(req.Prompt), nil
	}))
}

func mustChain(t *testing.T, steps ...Step) *Chain {
	t.Helper()
	c, err := New(steps...)
	if err != nil {
		t.Fatalf("failed to create chain: %v", err)
	}
	return c
}

func TestChain_IntermediateTrail(t *testing.T) {
	c := mustChain(t,
		Format(prompt.NewTextTemplate("tell me about {topic} and {place}")),
		Invoke(upper()),
		Parse(parser.NewKeyed("a", "b", "c")),
	)
	res, err := c.Call(context.Background(), models.FromMapping(models.Pairs("topic", "cats", "place", "rome")), WithIntermediate())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []models.Value{
		models.Text("tell me about cats and rome"),
		models.Text("TELL ME ABOUT CATS AND ROME"),
		models.FromMapping(models.Pairs("a", "TELL", "b", "ME", "c", "ABOUT")),
	}
	testboil.FailTestIfDiff(t, len(res.Intermediate), 3)
	for i := range want {
		if !res.Intermediate[i].Equal(want[i]) {
			t.Errorf("step %d: got %v, want %v", i, res.Intermediate[i], want[i])
		}
	}
	if !res.Output.Equal(want[2]) {
		t.Fatalf("output mismatch: got %v", res.Output)
	}
}

func TestChain_NoTrailUnlessRequested(t *testing.T) {
	c := mustChain(t, Format(prompt.NewTextTemplate("{text}")), Parse(parser.Text{}))
	res, err := c.Call(context.Background(), models.Text("x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Intermediate != nil {
		t.Fatalf("expected no trail, got %v", res.Intermediate)
	}
}

func TestChain_BareTextUsesDefaultBinding(t *testing.T) {
	c, err := Simple(prompt.NewTextTemplate("Q: {text}"), upper(), parser.Text{})
	if err != nil {
		t.Fatalf("failed to create chain: %v", err)
	}
	res, err := c.Call(context.Background(), models.Text("why"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testboil.FailTestIfDiff(t, res.Output.String(), "Q: WHY")
}

func TestChain_ChatPipeline(t *testing.T) {
	var gotTurns []llm.Turn
	chat := llm.NewChatModel(llm.ChatFunc(func(ctx context.Context, req llm.ChatRequest) (string, error) {
		gotTurns = req.Messages
		return "bonjour", nil
	}))
	c := mustChain(t,
		Format(prompt.NewChatTemplate(models.SystemMessage("Translate to {lang}"), models.HumanMessage("{text}"))),
		Invoke(chat),
		Parse(parser.Text{}),
	)
	res, err := c.Call(context.Background(), models.FromMapping(models.Pairs("lang", "French", "text", "hello")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testboil.FailTestIfDiff(t, res.Output.String(), "bonjour")
	testboil.FailTestIfDiff(t, len(gotTurns), 2)
	testboil.FailTestIfDiff(t, gotTurns[0].Content, "Translate to French")
}

func TestChain_ForwardsModelOptions(t *testing.T) {
	var got llm.CompletionRequest
	m := llm.NewCompletionModel(llm.CompletionFunc(func(ctx context.Context, req llm.CompletionRequest) (string, error) {
		got = req
		return "", nil
	}))
	c := mustChain(t, Invoke(m))
	_, err := c.Call(context.Background(), models.Text("p"),
		WithModelOptions(llm.WithStop("###"), llm.WithTemperature(0.2)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testboil.FailTestIfDiff(t, strings.Join(got.Stop, ","), "###")
	testboil.FailTestIfDiff(t, got.Temperature, 0.2)
}

func TestChain_StepFailure(t *testing.T) {
	boom := errors.New("backend down")
	failing := llm.NewCompletionModel(llm.CompletionFunc(func(ctx context.Context, req llm.CompletionRequest) (string, error) {
		return "", boom
	}))
	tests := []struct {
		name      string
		steps     []Step
		input     models.Value
		wantIndex int
		wantKind  StepKind
		wantCause error
	}{
		{
			name:      "formatter missing binding",
			steps:     []Step{Format(prompt.NewTextTemplate("{missing}"))},
			input:     models.Text("x"),
			wantIndex: 0,
			wantKind:  StepFormatter,
			wantCause: prompt.ErrMissingBinding,
		},
		{
			name:      "model backend failure",
			steps:     []Step{Format(prompt.NewTextTemplate("{text}")), Invoke(failing), Parse(parser.Text{})},
			input:     models.Text("x"),
			wantIndex: 1,
			wantKind:  StepModel,
			wantCause: boom,
		},
		{
			name:      "model given a mapping",
			steps:     []Step{Invoke(upper())},
			input:     models.FromMapping(models.Pairs("a", "b")),
			wantIndex: 0,
			wantKind:  StepModel,
			wantCause: models.ErrInvalidPromptValue,
		},
		{
			name:      "parser unsupported shape",
			steps:     []Step{Parse(parser.Passthrough{}), Parse(parser.List{})},
			input:     models.Record(1),
			wantIndex: 1,
			wantKind:  StepParser,
			wantCause: parser.ErrUnsupportedOutputType,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustChain(t, tt.steps...)
			res, err := c.Call(context.Background(), tt.input, WithIntermediate())
			if !errors.Is(err, ErrStepExecution) {
				t.Fatalf("expected ErrStepExecution, got: %v", err)
			}
			var see *StepExecutionError
			if !errors.As(err, &see) {
				t.Fatalf("expected *StepExecutionError, got %T", err)
			}
			testboil.FailTestIfDiff(t, see.Index, tt.wantIndex)
			testboil.FailTestIfDiff(t, see.Kind, tt.wantKind)
			if !errors.Is(err, tt.wantCause) {
				t.Fatalf("expected cause %v, got: %v", tt.wantCause, err)
			}
			if res.Output.IsValid() || res.Intermediate != nil {
				t.Fatalf("expected no partial result, got %+v", res)
			}
		})
	}
}

func TestNew_RejectsZeroStep(t *testing.T) {
	_, err := New(Parse(parser.Text{}), Step{})
	if !errors.Is(err, ErrInvalidStep) {
		t.Fatalf("expected ErrInvalidStep, got: %v", err)
	}
	_, err = New(Invoke(nil))
	if !errors.Is(err, ErrInvalidStep) {
		t.Fatalf("expected ErrInvalidStep for nil model, got: %v", err)
	}
}

func TestChain_Kinds(t *testing.T) {
	c := mustChain(t, Format(prompt.NewTextTemplate("")), Invoke(upper()), Parse(parser.Passthrough{}))
	kinds := c.Kinds()
	testboil.FailTestIfDiff(t, fmt.Sprint(kinds), "[formatter model parser]")
	testboil.FailTestIfDiff(t, c.Len(), 3)
}

func TestChain_EmptyReturnsInput(t *testing.T) {
	c := mustChain(t)
	res, err := c.Call(context.Background(), models.Text("same"), WithIntermediate())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testboil.FailTestIfDiff(t, res.Output.String(), "same")
	testboil.FailTestIfDiff(t, len(res.Intermediate), 0)
}

func TestChain_ConcurrentCalls(t *testing.T) {
	c, err := Simple(prompt.NewTextTemplate("n={text}"), upper(), parser.Text{})
	if err != nil {
		t.Fatalf("failed to create chain: %v", err)
	}
	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			in := fmt.Sprintf("x%d", i)
			res, err := c.Call(context.Background(), models.Text(in), WithIntermediate())
			if err != nil {
				errs <- err
				return
			}
			if want := "N=" + strings.ToUpper(in); res.Output.String() != want {
				errs <- fmt.Errorf("got %q, want %q", res.Output.String(), want)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestChain_ReturnsOnContextCancel(t *testing.T) {
	blocking := llm.NewChatModel(llm.ChatFunc(func(ctx context.Context, req llm.ChatRequest) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}))
	c := mustChain(t, Invoke(blocking))
	testboil.ReturnsOnContextCancel(t, func(ctx context.Context) {
		_, _ = c.Call(ctx, models.Text("p"))
	}, time.Second)
}
