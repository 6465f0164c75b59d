package novita

import (
	"context"
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
	"github.com/baalimago/lamb/internal/vendors/vendorstest"
	"github.com/baalimago/lamb/pkg/llm"
)

func TestSetup(t *testing.T) {
	vendorstest.RunSetupTests(t, "NOVITA_API_KEY", true, func() vendorstest.Setupper {
		v := Default
		return &v
	})
}

func TestChat_RoundTrip(t *testing.T) {
	ts, rec := vendorstest.ChatCompletionsServer(t, "once upon a time")
	t.Setenv("NOVITA_API_KEY", "n-key")
	v := Default
	v.URL = ts.URL
	v.Model = "novita:meta-llama/llama-3.1-8b-instruct"
	if err := v.Setup(); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	got, err := v.Chat(context.Background(), llm.ChatRequest{
		Messages:  []llm.Turn{{Role: "system", Content: "storyteller"}, {Role: "user", Content: "go"}},
		MaxTokens: 20,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testboil.FailTestIfDiff(t, got, "once upon a time")
	testboil.FailTestIfDiff(t, rec.Authorization, "Bearer n-key")
	testboil.FailTestIfDiff(t, rec.Body["model"], any("meta-llama/llama-3.1-8b-instruct"))
}
