package openai

import (
	"fmt"
	"net/http"
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	sdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	BaseURL   = "https://api.openai.com/v1"
	apiKeyEnv = "OPENAI_API_KEY"
	debugEnv  = "DEBUG_OPENAI"
)

// newClient reads the api key from the environment. Retries are disabled,
// a failing call surfaces to the caller immediately.
func newClient(url string, hc *http.Client) (sdk.Client, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return sdk.Client{}, fmt.Errorf("environment variable '%v' not set", apiKeyEnv)
	}
	if url == "" {
		url = BaseURL
	}
	if hc == nil {
		hc = &http.Client{}
	}
	return sdk.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(url),
		option.WithHTTPClient(hc),
		option.WithMaxRetries(0),
	), nil
}

func debugEnabled() bool {
	return misc.Truthy(os.Getenv("DEBUG")) || misc.Truthy(os.Getenv(debugEnv))
}
