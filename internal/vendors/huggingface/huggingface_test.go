package huggingface

import (
	"context"
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
	"github.com/baalimago/lamb/internal/vendors/vendorstest"
	"github.com/baalimago/lamb/pkg/llm"
	"github.com/baalimago/lamb/pkg/models"
)

func TestSetup(t *testing.T) {
	vendorstest.RunSetupTests(t, "HF_API_KEY", true, func() vendorstest.Setupper {
		v := Default
		return &v
	})
}

func TestChat_RoundTrip(t *testing.T) {
	ts, rec := vendorstest.ChatCompletionsServer(t, "hej")
	t.Setenv("HF_API_KEY", "hf-key")
	v := Default
	v.URL = ts.URL + "/v1/chat/completions"
	if err := v.Setup(); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	got, err := llm.NewChatModel(&v).Invoke(context.Background(), models.Text("hello in swedish"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testboil.FailTestIfDiff(t, got.String(), "hej")
	testboil.FailTestIfDiff(t, rec.Path, "/v1/chat/completions")
	testboil.FailTestIfDiff(t, rec.Authorization, "Bearer hf-key")
}
