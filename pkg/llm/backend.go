package llm

import "context"

// CompletionRequest is what a text completion backend receives. MaxTokens
// and Temperature always carry a value.
type CompletionRequest struct {
	Prompt      string   `json:"prompt"`
	Stop        []string `json:"stop,omitempty"`
	MaxTokens   int      `json:"max_tokens"`
	Temperature float64  `json:"temperature"`
	TopP        *float64 `json:"top_p,omitempty"`
}

// CompletionBackend is a vendor client generating text from text. The
// caller owns it and injects it into a CompletionModel.
type CompletionBackend interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type CompletionFunc func(ctx context.Context, req CompletionRequest) (string, error)

func (f CompletionFunc) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return f(ctx, req)
}

// Turn is a message mapped onto backend wire roles.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Messages    []Turn   `json:"messages"`
	Stop        []string `json:"stop,omitempty"`
	MaxTokens   int      `json:"max_tokens"`
	Temperature float64  `json:"temperature"`
	TopP        *float64 `json:"top_p,omitempty"`
}

// ChatBackend is a vendor client generating the content of the next
// assistant message.
type ChatBackend interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
}

type ChatFunc func(ctx context.Context, req ChatRequest) (string, error)

func (f ChatFunc) Chat(ctx context.Context, req ChatRequest) (string, error) {
	return f(ctx, req)
}
