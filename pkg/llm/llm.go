// Package llm defines the uniform invocation contract over text completion
// and chat completion backends. Backends are injected, never created here,
// and no retries happen inside this package.
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/debug"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/baalimago/lamb/pkg/models"
)

// LanguageModel is the capability a chain's model step relies on. Inputs
// outside the model's native shape are coerced through a PromptValue.
type LanguageModel interface {
	Invoke(ctx context.Context, input models.Value, opts ...Option) (models.Value, error)
}

func debugEnabled() bool {
	return misc.Truthy(os.Getenv("DEBUG")) || misc.Truthy(os.Getenv("DEBUG_LLM"))
}

// CompletionModel takes text and returns text.
type CompletionModel struct {
	backend  CompletionBackend
	defaults CallOptions
	debug    bool
}

// NewCompletionModel with opts as defaults for every invocation. Max tokens
// and temperature fall back to DefaultMaxTokens and DefaultTemperature.
func NewCompletionModel(backend CompletionBackend, opts ...Option) *CompletionModel {
	return &CompletionModel{
		backend:  backend,
		defaults: CallOptions{}.Apply(opts...),
		debug:    debugEnabled(),
	}
}

func (m *CompletionModel) Invoke(ctx context.Context, input models.Value, opts ...Option) (models.Value, error) {
	prompt, ok := input.Text()
	if !ok {
		pv, err := models.NewPromptValue(input)
		if err != nil {
			return models.Value{}, fmt.Errorf("failed to coerce input to text: %w", err)
		}
		prompt = pv.ToText()
	}
	co := m.defaults.Apply(opts...)
	req := CompletionRequest{
		Prompt:      prompt,
		Stop:        co.Stop,
		MaxTokens:   co.maxTokens(),
		Temperature: co.temperature(),
		TopP:        co.TopP,
	}
	if m.debug {
		ancli.PrintOK(fmt.Sprintf("completion request: %v\n", debug.IndentedJsonFmt(req)))
	}
	out, err := m.backend.Complete(ctx, req)
	if err != nil {
		return models.Value{}, &ModelInvocationError{Model: "completion", Err: err}
	}
	return models.Text(strings.TrimSpace(out)), nil
}

// DefaultWireRole maps roles onto the names most chat APIs expect.
func DefaultWireRole(r models.Role) string {
	switch r {
	case models.RoleHuman:
		return "user"
	case models.RoleAI:
		return "assistant"
	default:
		return string(r)
	}
}

// ChatModel takes a message sequence and returns a single ai message.
type ChatModel struct {
	backend  ChatBackend
	defaults CallOptions
	wireRole func(models.Role) string
	debug    bool
}

func NewChatModel(backend ChatBackend, opts ...Option) *ChatModel {
	return &ChatModel{
		backend:  backend,
		defaults: CallOptions{}.Apply(opts...),
		wireRole: DefaultWireRole,
		debug:    debugEnabled(),
	}
}

// WithWireRoles returns a copy using mapper to name roles for the backend.
func (m *ChatModel) WithWireRoles(mapper func(models.Role) string) *ChatModel {
	cpy := *m
	cpy.wireRole = mapper
	return &cpy
}

func (m *ChatModel) Invoke(ctx context.Context, input models.Value, opts ...Option) (models.Value, error) {
	msgs, ok := input.Messages()
	if !ok {
		pv, err := models.NewPromptValue(input)
		if err != nil {
			return models.Value{}, fmt.Errorf("failed to coerce input to messages: %w", err)
		}
		msgs = pv.ToMessages()
	}
	turns := make([]Turn, 0, len(msgs))
	for _, msg := range msgs {
		turns = append(turns, Turn{Role: m.wireRole(msg.Role()), Content: msg.Content()})
	}
	co := m.defaults.Apply(opts...)
	req := ChatRequest{
		Messages:    turns,
		Stop:        co.Stop,
		MaxTokens:   co.maxTokens(),
		Temperature: co.temperature(),
		TopP:        co.TopP,
	}
	if m.debug {
		ancli.PrintOK(fmt.Sprintf("chat request: %v\n", debug.IndentedJsonFmt(req)))
	}
	out, err := m.backend.Chat(ctx, req)
	if err != nil {
		return models.Value{}, &ModelInvocationError{Model: "chat", Err: err}
	}
	return models.FromMessage(models.AIMessage(strings.TrimSpace(out))), nil
}

var (
	_ LanguageModel = (*CompletionModel)(nil)
	_ LanguageModel = (*ChatModel)(nil)
)
