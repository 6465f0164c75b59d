package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/debug"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/baalimago/lamb/pkg/llm"
	"google.golang.org/genai"
)

const (
	apiKeyEnv = "GEMINI_API_KEY"
	debugEnv  = "DEBUG_GEMINI"
)

var Default = Gemini{
	Model: "gemini-2.5-flash",
}

type modelsClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var newModelsClient = func(ctx context.Context, cfg *genai.ClientConfig) (modelsClient, error) {
	c, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return c.Models, nil
}

// Gemini serves both as llm.ChatBackend and llm.CompletionBackend. A
// completion is a single user turn.
type Gemini struct {
	Model string `json:"model"`
	// URL replaces the api base url when set.
	URL              string   `json:"url,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`

	models modelsClient
	debug  bool
}

func (g *Gemini) Setup() error {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return fmt.Errorf("environment variable '%v' not set", apiKeyEnv)
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if g.URL != "" {
		cfg.HTTPOptions.BaseURL = g.URL
	}
	m, err := newModelsClient(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to create gemini client: %w", err)
	}
	g.models = m
	g.debug = misc.Truthy(os.Getenv("DEBUG")) || misc.Truthy(os.Getenv(debugEnv))
	return nil
}

func (g *Gemini) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	return g.Chat(ctx, llm.ChatRequest{
		Messages:    []llm.Turn{{Role: "user", Content: req.Prompt}},
		Stop:        req.Stop,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        req.TopP,
	})
}

func (g *Gemini) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	if g.models == nil {
		return "", errors.New("gemini backend is not set up")
	}
	contents, cfg, err := g.buildRequest(req)
	if err != nil {
		return "", err
	}
	if g.debug {
		ancli.PrintOK(fmt.Sprintf("gemini request: %v\n", debug.IndentedJsonFmt(req)))
	}
	resp, err := g.models.GenerateContent(ctx, g.Model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return visibleText(resp), nil
}

// buildRequest moves system turns into the system instruction, since the
// content list only takes user and model roles.
func (g *Gemini) buildRequest(req llm.ChatRequest) ([]*genai.Content, *genai.GenerateContentConfig, error) {
	contents := make([]*genai.Content, 0, len(req.Messages))
	var system []string
	for _, t := range req.Messages {
		switch t.Role {
		case "system":
			system = append(system, t.Content)
		case "assistant":
			contents = append(contents, genai.NewContentFromText(t.Content, genai.RoleModel))
		case "user":
			contents = append(contents, genai.NewContentFromText(t.Content, genai.RoleUser))
		default:
			return nil, nil, fmt.Errorf("unsupported role: %s", t.Role)
		}
	}
	if len(contents) == 0 {
		return nil, nil, errors.New("at least one user or assistant message is required")
	}
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(req.MaxTokens),
		CandidateCount:  1,
		StopSequences:   req.Stop,
	}
	if req.TopP != nil {
		cfg.TopP = genai.Ptr(float32(*req.TopP))
	}
	if g.FrequencyPenalty != nil {
		cfg.FrequencyPenalty = genai.Ptr(float32(*g.FrequencyPenalty))
	}
	if g.PresencePenalty != nil {
		cfg.PresencePenalty = genai.Ptr(float32(*g.PresencePenalty))
	}
	if len(system) > 0 {
		cfg.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}
	return contents, cfg, nil
}

// visibleText concatenates the text parts of the first candidate, skipping
// thoughts.
func visibleText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		sb.WriteString(p.Text)
	}
	return sb.String()
}
