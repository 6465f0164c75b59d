package inception

import (
	"fmt"

	"github.com/baalimago/lamb/internal/vendors/generic"
)

const ChatURL = "https://api.inceptionlabs.ai/v1/chat/completions"

var Default = Inception{
	Model: "mercury",
	URL:   ChatURL,
}

// Inception serves the mercury diffusion models.
type Inception struct {
	generic.StreamCompleter
	Model            string   `json:"model"`
	URL              string   `json:"url"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
}

func (i *Inception) Setup() error {
	i.StreamCompleter.URL = i.URL
	err := i.StreamCompleter.Setup("INCEPTION_API_KEY", ChatURL, "DEBUG_INCEPTION")
	if err != nil {
		return fmt.Errorf("failed to setup stream completer: %w", err)
	}
	i.StreamCompleter.Model = i.Model
	i.StreamCompleter.FrequencyPenalty = i.FrequencyPenalty
	i.StreamCompleter.PresencePenalty = i.PresencePenalty
	return nil
}
