package novita

import (
	"fmt"
	"strings"

	"github.com/baalimago/lamb/internal/vendors/generic"
)

const ChatURL = "https://api.novita.ai/v3/openai/chat/completions"

var Default = Novita{
	Model: "gryphe/mythomax-l2-13b",
	URL:   ChatURL,
}

type Novita struct {
	generic.StreamCompleter
	Model            string   `json:"model"`
	URL              string   `json:"url"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
}

// Setup trims a leading "novita:" from the model, so models of hosted
// organisations can be told apart from the other backends.
func (n *Novita) Setup() error {
	n.StreamCompleter.URL = n.URL
	err := n.StreamCompleter.Setup("NOVITA_API_KEY", ChatURL, "DEBUG_NOVITA")
	if err != nil {
		return fmt.Errorf("failed to setup stream completer: %w", err)
	}
	n.StreamCompleter.Model = strings.TrimPrefix(n.Model, "novita:")
	n.StreamCompleter.FrequencyPenalty = n.FrequencyPenalty
	n.StreamCompleter.PresencePenalty = n.PresencePenalty
	return nil
}
