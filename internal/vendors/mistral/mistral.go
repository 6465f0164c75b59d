package mistral

import (
	"context"
	"fmt"

	"github.com/baalimago/lamb/internal/vendors/generic"
	"github.com/baalimago/lamb/pkg/llm"
)

const ChatURL = "https://api.mistral.ai/v1/chat/completions"

var Default = Mistral{
	Model: "mistral-large-latest",
	URL:   ChatURL,
}

type Mistral struct {
	generic.StreamCompleter
	Model            string   `json:"model"`
	URL              string   `json:"url"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
}

func (m *Mistral) Setup() error {
	m.StreamCompleter.URL = m.URL
	err := m.StreamCompleter.Setup("MISTRAL_API_KEY", ChatURL, "DEBUG_MISTRAL")
	if err != nil {
		return fmt.Errorf("failed to setup stream completer: %w", err)
	}
	m.StreamCompleter.Model = m.Model
	m.StreamCompleter.FrequencyPenalty = m.FrequencyPenalty
	m.StreamCompleter.PresencePenalty = m.PresencePenalty
	return nil
}

func (m *Mistral) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	req.Messages = mergeAssistantTurns(req.Messages)
	return m.StreamCompleter.Chat(ctx, req)
}

// mergeAssistantTurns joins consecutive assistant turns with a newline,
// mistral rejects them otherwise. The input is not modified.
func mergeAssistantTurns(turns []llm.Turn) []llm.Turn {
	ret := make([]llm.Turn, 0, len(turns))
	for _, t := range turns {
		if n := len(ret); n > 0 && t.Role == "assistant" && ret[n-1].Role == "assistant" {
			ret[n-1].Content += "\n" + t.Content
			continue
		}
		ret = append(ret, t)
	}
	return ret
}
