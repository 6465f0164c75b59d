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

var CompletionsDefault = Completions{
	Model: "gpt-3.5-turbo-instruct",
	URL:   BaseURL,
}

// Completions is a llm.CompletionBackend on top of the legacy text
// completions endpoint.
type Completions struct {
	Model            string       `json:"model"`
	URL              string       `json:"url"`
	FrequencyPenalty *float64     `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64     `json:"presence_penalty,omitempty"`
	HTTPClient       *http.Client `json:"-"`

	client sdk.Client
	debug  bool
}

func (c *Completions) Setup() error {
	client, err := newClient(c.URL, c.HTTPClient)
	if err != nil {
		return fmt.Errorf("failed to setup openai completions: %w", err)
	}
	c.client = client
	c.debug = debugEnabled()
	return nil
}

func (c *Completions) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	params := sdk.CompletionNewParams{
		Model:       sdk.CompletionNewParamsModel(c.Model),
		Prompt:      sdk.CompletionNewParamsPromptUnion{OfString: sdk.String(req.Prompt)},
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
		params.Stop = sdk.CompletionNewParamsStopUnion{OfStringArray: req.Stop}
	}
	if c.debug {
		ancli.PrintOK(fmt.Sprintf("openai completions request: %v\n", debug.IndentedJsonFmt(req)))
	}
	resp, err := c.client.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to create completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return resp.Choices[0].Text, nil
}
