package huggingface

import (
	"fmt"

	"github.com/baalimago/lamb/internal/vendors/generic"
)

const (
	ChatURL   = "https://router.huggingface.co/v1/chat/completions"
	apiKeyEnv = "HF_API_KEY"
	debugEnv  = "DEBUG_HUGGINGFACE"
)

var Default = HuggingFace{
	Model: "meta-llama/Meta-Llama-3.1-8B-Instruct",
	URL:   ChatURL,
}

// HuggingFace talks to the OpenAI compatible inference router.
type HuggingFace struct {
	generic.StreamCompleter
	Model            string   `json:"model"`
	URL              string   `json:"url"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty"`
}

func (h *HuggingFace) Setup() error {
	h.StreamCompleter.URL = h.URL
	if err := h.StreamCompleter.Setup(apiKeyEnv, ChatURL, debugEnv); err != nil {
		return fmt.Errorf("failed to setup stream completer: %w", err)
	}
	h.StreamCompleter.Model = h.Model
	h.StreamCompleter.FrequencyPenalty = h.FrequencyPenalty
	h.StreamCompleter.PresencePenalty = h.PresencePenalty
	return nil
}
