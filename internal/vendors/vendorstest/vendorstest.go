package vendorstest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// Setupper is any vendor which reads its credentials on Setup.
type Setupper interface {
	Setup() error
}

// RunSetupTests runs common Setup tests for vendors.
func RunSetupTests(t *testing.T, envVar string, requiresEnv bool, newVendor func() Setupper) {
	t.Helper()

	t.Run("with_env", func(t *testing.T) {
		v := newVendor()
		t.Setenv(envVar, "some-key")
		if err := v.Setup(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	if requiresEnv {
		t.Run("no_env", func(t *testing.T) {
			v := newVendor()
			t.Setenv(envVar, "")
			if err := v.Setup(); err == nil {
				t.Fatalf("expected error when %s unset", envVar)
			}
		})
	}
}

// Recorded is the last request an OpenAI compatible test server received.
type Recorded struct {
	Path          string
	Authorization string
	Body          map[string]any
}

// ChatCompletionsServer streams reply as a single server sent event chunk
// followed by [DONE], recording the request into the returned Recorded.
func ChatCompletionsServer(t *testing.T, reply string) (*httptest.Server, *Recorded) {
	t.Helper()
	rec := &Recorded{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.Path = r.URL.Path
		rec.Authorization = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		rec.Body = map[string]any{}
		_ = json.Unmarshal(raw, &rec.Body)
		chunk, _ := json.Marshal(map[string]any{
			"choices": []any{map[string]any{"delta": map[string]any{"content": reply}}},
		})
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "data: %s\n\n", chunk)
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(ts.Close)
	return ts, rec
}
