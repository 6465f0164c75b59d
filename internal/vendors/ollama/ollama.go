package ollama

import (
	"fmt"
	"os"
	"strings"

	"github.com/baalimago/lamb/internal/vendors/generic"
)

const ChatURL = "http://localhost:11434/v1/chat/completions"

var Default = Ollama{
	Model: "llama3",
	URL:   ChatURL,
}

// Ollama is a local runner speaking the OpenAI compatible protocol.
type Ollama struct {
	generic.StreamCompleter
	Model            string   `json:"model"`
	URL              string   `json:"url"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
}

// Setup falls back to a placeholder api key, since a local runner needs
// none. A leading "ollama:" is trimmed from the model name.
func (o *Ollama) Setup() error {
	if os.Getenv("OLLAMA_API_KEY") == "" {
		os.Setenv("OLLAMA_API_KEY", "ollama")
	}
	o.StreamCompleter.URL = o.URL
	err := o.StreamCompleter.Setup("OLLAMA_API_KEY", ChatURL, "DEBUG_OLLAMA")
	if err != nil {
		return fmt.Errorf("failed to setup stream completer: %w", err)
	}
	o.StreamCompleter.Model = strings.TrimPrefix(o.Model, "ollama:")
	o.StreamCompleter.FrequencyPenalty = o.FrequencyPenalty
	o.StreamCompleter.PresencePenalty = o.PresencePenalty
	return nil
}
