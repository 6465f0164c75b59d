package generic

import (
	"net/http"

	"github.com/baalimago/lamb/pkg/llm"
)

// StreamCompleter talks to any OpenAI compatible chat completions endpoint
// over server sent events.
type StreamCompleter struct {
	Model            string
	FrequencyPenalty *float64
	PresencePenalty  *float64
	URL              string
	client           *http.Client
	apiKey           string
	debug            bool
}

// CompletionEvent is one of string, error or StopEvent.
type CompletionEvent any

// StopEvent marks the end of a stream.
type StopEvent struct{}

// NoopEvent is produced for chunks without content.
type NoopEvent struct{}

type chatCompletionChunk struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int      `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

type Choice struct {
	Index        int    `json:"index"`
	Delta        Delta  `json:"delta"`
	FinishReason string `json:"finish_reason"`
}

type Delta struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

type req struct {
	Model            string     `json:"model,omitempty"`
	Messages         []llm.Turn `json:"messages,omitempty"`
	Stream           bool       `json:"stream,omitempty"`
	FrequencyPenalty *float64   `json:"frequency_penalty,omitempty"`
	MaxTokens        int        `json:"max_tokens,omitempty"`
	PresencePenalty  *float64   `json:"presence_penalty,omitempty"`
	Temperature      float64    `json:"temperature"`
	TopP             *float64   `json:"top_p,omitempty"`
	Stop             []string   `json:"stop,omitempty"`
	N                int        `json:"n,omitempty"`
}
