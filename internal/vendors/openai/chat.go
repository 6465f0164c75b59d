package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/debug"
	"github.com/baalimago/lamb/pkg/llm"
	sdk "github.com/openai/openai-go/v3"
)

var ChatDefault = Chat{
	Model: "gpt-4.1-mini",
	URL:   BaseURL,
}

// Chat is a llm.ChatBackend on top of the chat completions endpoint.
type Chat struct {
	Model            string   `json:"model"`
	URL              string   `json:"url"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
	// HTTPClient is used instead of a default client when set.
	HTTPClient *http.Client `json:"-"`

	client sdk.Client
	debug  bool
}

func (c *Chat) Setup() error {
	client, err := newClient(c.URL, c.HTTPClient)
	if err != nil {
		return fmt.Errorf("failed to setup openai chat: %w", err)
	}
	c.client = client
	c.debug = debugEnabled()
	return nil
}

func (c *Chat) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	params, err := c.buildParams(req)
	if err != nil {
		return "", err
	}
	if c.debug {
		ancli.PrintOK(fmt.Sprintf("openai chat request: %v\n", debug.IndentedJsonFmt(req)))
	}
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Chat) buildParams(req llm.ChatRequest) (sdk.ChatCompletionNewParams, error) {
	if len(req.Messages) == 0 {
		return sdk.ChatCompletionNewParams{}, errors.New("messages are required")
	}
	msgs := make([]sdk.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, t := range req.Messages {
		m, err := toMessageParam(t)
		if err != nil {
			return sdk.ChatCompletionNewParams{}, err
		}
		msgs = append(msgs, m)
	}
	params := sdk.ChatCompletionNewParams{
		Model:       sdk.ChatModel(c.Model),
		Messages:    msgs,
		MaxTokens:   sdk.Int(int64(req.MaxTokens)),
		Temperature: sdk.Float(req.Temperature),
		N:           sdk.Int(1),
	}
	if req.TopP != nil {
		params.TopP = sdk.Float(*req.TopP)
	}
	if c.FrequencyPenalty != nil {
		params.FrequencyPenalty = sdk.Float(*c.FrequencyPenalty)
	}
	if c.PresencePenalty != nil {
		params.PresencePenalty = sdk.Float(*c.PresencePenalty)
	}
	if len(req.Stop) > 0 {
		params.Stop = sdk.ChatCompletionNewParamsStopUnion{OfStringArray: req.Stop}
	}
	return params, nil
}

func toMessageParam(t llm.Turn) (sdk.ChatCompletionMessageParamUnion, error) {
	switch t.Role {
	case "system":
		return sdk.SystemMessage(t.Content), nil
	case "user":
		return sdk.UserMessage(t.Content), nil
	case "assistant":
		return sdk.AssistantMessage(t.Content), nil
	default:
		return sdk.ChatCompletionMessageParamUnion{}, fmt.Errorf("unsupported role: %s", t.Role)
	}
}
