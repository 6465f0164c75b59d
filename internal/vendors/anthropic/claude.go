package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/baalimago/lamb/pkg/llm"
)

const (
	ClaudeURL = "https://api.anthropic.com/v1/messages"
	apiKeyEnv = "ANTHROPIC_API_KEY"
	debugEnv  = "DEBUG_ANTHROPIC"
)

var Default = Claude{
	Model:            "claude-sonnet-4-5",
	URL:              ClaudeURL,
	AnthropicVersion: "2023-06-01",
}

// Claude is a llm.ChatBackend and llm.CompletionBackend on top of the
// streaming messages api.
type Claude struct {
	Model            string `json:"model"`
	URL              string `json:"url"`
	AnthropicVersion string `json:"anthropic-version"`
	// HTTPClient is used instead of a default client when set.
	HTTPClient *http.Client `json:"-"`

	client *http.Client
	apiKey string
	debug  bool
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeReqMessage struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type claudeReq struct {
	Model         string             `json:"model"`
	Messages      []claudeReqMessage `json:"messages"`
	MaxTokens     int                `json:"max_tokens"`
	Stream        bool               `json:"stream"`
	System        string             `json:"system,omitempty"`
	Temperature   float64            `json:"temperature"`
	TopP          *float64           `json:"top_p,omitempty"`
	StopSequences []string           `json:"stop_sequences,omitempty"`
}

func (c *Claude) Setup() error {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return fmt.Errorf("environment variable '%v' not set", apiKeyEnv)
	}
	c.client = c.HTTPClient
	if c.client == nil {
		c.client = &http.Client{}
	}
	if c.URL == "" {
		c.URL = ClaudeURL
	}
	if c.AnthropicVersion == "" {
		c.AnthropicVersion = Default.AnthropicVersion
	}
	c.apiKey = apiKey
	c.debug = misc.Truthy(os.Getenv("DEBUG")) || misc.Truthy(os.Getenv(debugEnv))
	return nil
}

// Complete sends the prompt as a single user turn.
func (c *Claude) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	return c.Chat(ctx, llm.ChatRequest{
		Messages:    []llm.Turn{{Role: "user", Content: req.Prompt}},
		Stop:        req.Stop,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
	})
}

func (c *Claude) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	if c.client == nil {
		return "", errors.New("anthropic backend is not set up")
	}
	httpReq, err := c.constructRequest(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to construct request: %w", err)
	}
	return c.stream(httpReq)
}

// claudifyMessages lifts every system turn into the system prompt and
// merges consecutive turns of the same role, since the messages api wants
// user and assistant turns to alternate.
func claudifyMessages(turns []llm.Turn) (string, []claudeReqMessage, error) {
	var system []string
	msgs := make([]claudeReqMessage, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case "system":
			system = append(system, t.Content)
			continue
		case "user", "assistant":
		default:
			return "", nil, fmt.Errorf("unsupported role: %s", t.Role)
		}
		block := contentBlock{Type: "text", Text: t.Content}
		if n := len(msgs); n > 0 && msgs[n-1].Role == t.Role {
			msgs[n-1].Content = append(msgs[n-1].Content, block)
			continue
		}
		msgs = append(msgs, claudeReqMessage{Role: t.Role, Content: []contentBlock{block}})
	}
	if len(msgs) == 0 {
		return "", nil, errors.New("at least one user or assistant message is required")
	}
	return strings.Join(system, "\n\n"), msgs, nil
}
