package xai

import (
	"fmt"

	"github.com/baalimago/lamb/internal/vendors/generic"
)

const ChatURL = "https://api.x.ai/v1/chat/completions"

var Default = XAI{
	Model: "grok-3-mini",
	URL:   ChatURL,
}

type XAI struct {
	generic.StreamCompleter
	Model            string   `json:"model"`
	URL              string   `json:"url"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
}

func (x *XAI) Setup() error {
	x.StreamCompleter.URL = x.URL
	err := x.StreamCompleter.Setup("XAI_API_KEY", ChatURL, "DEBUG_XAI")
	if err != nil {
		return fmt.Errorf("failed to setup stream completer: %w", err)
	}
	x.StreamCompleter.Model = x.Model
	x.StreamCompleter.FrequencyPenalty = x.FrequencyPenalty
	x.StreamCompleter.PresencePenalty = x.PresencePenalty
	return nil
}
