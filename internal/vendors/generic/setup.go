package generic

import (
	"fmt"
	"net/http"
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/misc"
)

func (s *StreamCompleter) Setup(apiKeyEnv, url, debugEnv string) error {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return fmt.Errorf("environment variable '%v' not set", apiKeyEnv)
	}
	if s.client == nil {
		s.client = &http.Client{}
	}
	s.apiKey = apiKey
	if s.URL == "" {
		s.URL = url
	}

	if misc.Truthy(os.Getenv("DEBUG")) || misc.Truthy(os.Getenv(debugEnv)) {
		s.debug = true
	}
	return nil
}

// SetHTTPClient replaces the client used for requests.
func (s *StreamCompleter) SetHTTPClient(c *http.Client) {
	s.client = c
}
