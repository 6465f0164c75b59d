package config

import (
	"fmt"
)

const FileName = "lambConfig.json"

// Configurations of the lamb command. Flags override these per run.
type Configurations struct {
	Backend      string   `json:"backend"`
	Model        string   `json:"model"`
	Template     string   `json:"template"`
	SystemPrompt string   `json:"system-prompt"`
	Output       string   `json:"output"`
	Keys         []string `json:"keys"`
	Stop         []string `json:"stop"`
	MaxTokens    *int     `json:"max-tokens"`
	Temperature  *float64 `json:"temperature"`
	TopP         *float64 `json:"top-p"`
	// URL replaces the endpoint of the backend.
	URL              string   `json:"url"`
	FrequencyPenalty *float64 `json:"frequency-penalty"`
	PresencePenalty  *float64 `json:"presence-penalty"`
	LogFile          string   `json:"log-file"`
	LogLevel         string   `json:"log-level"`
	LogFormat        string   `json:"log-format"`
}

func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

var Default = Configurations{
	Backend:      "openai",
	Template:     "{text}",
	SystemPrompt: "You are a helpful assistant.",
	Output:       "text",
	MaxTokens:    intPtr(100),
	Temperature:  floatPtr(0.7),
	LogLevel:     "info",
	LogFormat:    "json",
}

// Load the lamb configuration from the config directory.
func Load() (Configurations, error) {
	dir, err := Dir()
	if err != nil {
		return Configurations{}, fmt.Errorf("failed to find config dir: %w", err)
	}
	dflt := Default
	conf, err := LoadConfigFromFile(dir, FileName, &dflt)
	if err != nil {
		return Configurations{}, fmt.Errorf("failed to load config: %w", err)
	}
	return conf, nil
}
