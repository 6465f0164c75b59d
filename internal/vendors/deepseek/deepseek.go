package deepseek

import (
	"fmt"

	"github.com/baalimago/lamb/internal/vendors/generic"
)

const ChatURL = "https://api.deepseek.com/chat/completions"

var Default = Deepseek{
	Model: "deepseek-chat",
	URL:   ChatURL,
}

type Deepseek struct {
	generic.StreamCompleter
	Model            string   `json:"model"`
	URL              string   `json:"url"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
}

func (d *Deepseek) Setup() error {
	d.StreamCompleter.URL = d.URL
	err := d.StreamCompleter.Setup("DEEPSEEK_API_KEY", ChatURL, "DEBUG_DEEPSEEK")
	if err != nil {
		return fmt.Errorf("failed to setup stream completer: %w", err)
	}
	d.StreamCompleter.Model = d.Model
	d.StreamCompleter.FrequencyPenalty = d.FrequencyPenalty
	d.StreamCompleter.PresencePenalty = d.PresencePenalty
	return nil
}
