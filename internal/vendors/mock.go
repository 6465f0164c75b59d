package vendors

import (
	"context"
	"strings"

	"github.com/baalimago/lamb/pkg/llm"
)

// Mock echoes its input, for offline runs and tests.
type Mock struct{}

func (m *Mock) Setup() error {
	return nil
}

func (m *Mock) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return truncateAtStop(req.Prompt, req.Stop), nil
}

// Chat echoes the content of the last user turn.
func (m *Mock) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			return truncateAtStop(req.Messages[i].Content, req.Stop), nil
		}
	}
	return "", nil
}

func truncateAtStop(s string, stop []string) string {
	for _, st := range stop {
		if st == "" {
			continue
		}
		if i := strings.Index(s, st); i >= 0 {
			s = s[:i]
		}
	}
	return s
}
