package internal

import (
	"strings"
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
	"github.com/baalimago/lamb/internal/config"
)

func TestParseFlags_ShortAndLong(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		want     Flags
		wantRest []string
	}{
		{
			name:     "defaults",
			args:     []string{"q", "hi"},
			want:     Flags{},
			wantRest: []string{"q", "hi"},
		},
		{
			name:     "short flags",
			args:     []string{"-b", "mock", "-m", "m1", "-t", "{text}!", "-o", "keys", "-k", "a,b", "-s", "###", "q"},
			want:     Flags{Backend: "mock", Model: "m1", Template: "{text}!", Output: "keys", Keys: "a,b", Stop: "###"},
			wantRest: []string{"q"},
		},
		{
			name:     "long flags",
			args:     []string{"-backend", "gemini", "-model", "m2", "-system-prompt", "sys", "-url", "http://localhost:1", "-trail", "c", "x"},
			want:     Flags{Backend: "gemini", Model: "m2", SystemPrompt: "sys", URL: "http://localhost:1", Trail: true},
			wantRest: []string{"c", "x"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rest, err := parseFlags(tt.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testboil.FailTestIfDiff(t, got.Backend, tt.want.Backend)
			testboil.FailTestIfDiff(t, got.Model, tt.want.Model)
			testboil.FailTestIfDiff(t, got.Template, tt.want.Template)
			testboil.FailTestIfDiff(t, got.SystemPrompt, tt.want.SystemPrompt)
			testboil.FailTestIfDiff(t, got.Output, tt.want.Output)
			testboil.FailTestIfDiff(t, got.Keys, tt.want.Keys)
			testboil.FailTestIfDiff(t, got.Stop, tt.want.Stop)
			testboil.FailTestIfDiff(t, got.URL, tt.want.URL)
			testboil.FailTestIfDiff(t, got.Trail, tt.want.Trail)
			testboil.FailTestIfDiff(t, strings.Join(rest, " "), strings.Join(tt.wantRest, " "))
		})
	}
}

func TestParseFlags_MutuallyExclusive(t *testing.T) {
	_, _, err := parseFlags([]string{"-m", "a", "-model", "b", "q"})
	if err == nil {
		t.Fatal("expected error for both -m and -model")
	}
	testboil.AssertStringContains(t, err.Error(), "mutually exclusive")
}

func TestParseFlags_Vars(t *testing.T) {
	got, _, err := parseFlags([]string{"-var", "a=1", "-var", "b=x=y", "q"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testboil.FailTestIfDiff(t, got.Vars.String(), "a=1,b=x=y")

	_, _, err = parseFlags([]string{"-var", "novalue", "q"})
	if err == nil {
		t.Fatal("expected error for var without '='")
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	conf := config.Default
	applyFlagOverrides(&conf, Flags{})
	testboil.FailTestIfDiff(t, conf.Backend, config.Default.Backend)
	testboil.FailTestIfDiff(t, conf.Template, config.Default.Template)

	applyFlagOverrides(&conf, Flags{Backend: "mock", Keys: " a , ,b", Stop: `\n,###`})
	testboil.FailTestIfDiff(t, conf.Backend, "mock")
	testboil.FailTestIfDiff(t, strings.Join(conf.Keys, "|"), "a|b")
	testboil.FailTestIfDiff(t, len(conf.Stop), 2)
	testboil.FailTestIfDiff(t, conf.Stop[0], "\n")
	testboil.FailTestIfDiff(t, conf.Stop[1], "###")

	applyFlagOverrides(&conf, Flags{URL: "http://localhost:8080"})
	testboil.FailTestIfDiff(t, conf.URL, "http://localhost:8080")
}

func TestSplitStop(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "###", want: []string{"###"}},
		{in: `\n,###`, want: []string{"\n", "###"}},
		{in: `\,`, want: []string{","}},
		{in: `a\,b,c`, want: []string{"a,b", "c"}},
		{in: `\\,x`, want: []string{`\`, "x"}},
		{in: ",", want: nil},
		{in: " end ,", want: []string{" end "}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := splitStop(tt.in)
			testboil.FailTestIfDiff(t, strings.Join(got, "|"), strings.Join(tt.want, "|"))
			testboil.FailTestIfDiff(t, len(got), len(tt.want))
		})
	}
}

func TestGetModeFromArgs(t *testing.T) {
	tests := map[string]Mode{
		"q": QUERY, "query": QUERY,
		"c": CHAT, "chat": CHAT,
		"p": PIPELINE, "pipeline": PIPELINE,
		"h": HELP, "help": HELP,
		"v": VERSION, "version": VERSION,
	}
	for in, want := range tests {
		got, err := getModeFromArgs(in)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", in, err)
		}
		testboil.FailTestIfDiff(t, got, want)
	}
	if _, err := getModeFromArgs("photo"); err == nil {
		t.Fatal("expected error for unknown command")
	}
}
