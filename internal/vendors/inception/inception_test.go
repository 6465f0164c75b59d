package inception

import (
	"context"
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
	"github.com/baalimago/lamb/internal/vendors/vendorstest"
	"github.com/baalimago/lamb/pkg/llm"
	"github.com/baalimago/lamb/pkg/models"
)

func TestSetup(t *testing.T) {
	vendorstest.RunSetupTests(t, "INCEPTION_API_KEY", true, func() vendorstest.Setupper {
		v := Default
		return &v
	})
}

func TestChat_RoundTrip(t *testing.T) {
	ts, rec := vendorstest.ChatCompletionsServer(t, "fast")
	t.Setenv("INCEPTION_API_KEY", "i-key")
	v := Default
	v.URL = ts.URL
	if err := v.Setup(); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	got, err := llm.NewCompletionModel(&v).Invoke(context.Background(), models.Text("how fast?"), llm.WithStop("\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testboil.FailTestIfDiff(t, got.String(), "fast")
	testboil.FailTestIfDiff(t, rec.Body["model"], any("mercury"))
	stop, _ := rec.Body["stop"].([]any)
	testboil.FailTestIfDiff(t, len(stop), 1)
}
