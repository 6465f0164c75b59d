package parser

import (
	"errors"
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
	"github.com/baalimago/lamb/pkg/models"
)

func mustParse(t *testing.T, p Parser, in models.Value) models.Value {
	t.Helper()
	out, err := p.Parse(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return out
}

func TestPassthrough(t *testing.T) {
	in := models.FromMapping(models.Pairs("a", "1"))
	if out := mustParse(t, Passthrough{}, in); !out.Equal(in) {
		t.Fatalf("got %v", out)
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   models.Value
		want string
	}{
		{name: "text", in: models.Text("a"), want: "a"},
		{name: "sequence", in: models.Strings("a", "b"), want: "a b"},
		{name: "mapping keeps insertion order", in: models.FromMapping(models.Pairs("y", "2", "x", "1")), want: "2 1"},
		{name: "message", in: models.FromMessage(models.AIMessage("hi")), want: "hi"},
		{name: "empty sequence", in: models.Sequence(), want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := mustParse(t, Text{}, tt.in)
			s, ok := out.Text()
			if !ok {
				t.Fatalf("expected text, got %v", out.Kind())
			}
			testboil.FailTestIfDiff(t, s, tt.want)
		})
	}
}

func TestText_Unsupported(t *testing.T) {
	for _, in := range []models.Value{
		{},
		models.Record(1),
		models.Sequence(models.Strings("nested")),
	} {
		_, err := Text{}.Parse(in)
		if !errors.Is(err, ErrUnsupportedOutputType) {
			t.Fatalf("expected ErrUnsupportedOutputType for %v, got: %v", in.Kind(), err)
		}
	}
}

func TestList(t *testing.T) {
	tests := []struct {
		name string
		in   models.Value
		want models.Value
	}{
		{name: "text", in: models.Text("a"), want: models.Strings("a")},
		{name: "sequence", in: models.Strings("a", "b"), want: models.Strings("a", "b")},
		{name: "mapping", in: models.FromMapping(models.Pairs("x", "1", "y", "2")), want: models.Strings("1", "2")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if out := mustParse(t, List{}, tt.in); !out.Equal(tt.want) {
				t.Fatalf("got %v, want %v", out, tt.want)
			}
		})
	}
	if _, err := (List{}).Parse(models.Record(1)); !errors.Is(err, ErrUnsupportedOutputType) {
		t.Fatalf("expected ErrUnsupportedOutputType, got: %v", err)
	}
}

func TestKeyed(t *testing.T) {
	p := NewKeyed("a", "b")
	tests := []struct {
		name string
		in   models.Value
		want models.Mapping
	}{
		{name: "text", in: models.Text("1 2"), want: models.Pairs("a", "1", "b", "2")},
		{name: "text truncates keys", in: models.Text("1"), want: models.Pairs("a", "1")},
		{name: "text drops extra tokens", in: models.Text(" 1\t2\n3 "), want: models.Pairs("a", "1", "b", "2")},
		{name: "sequence", in: models.Strings("x", "y", "z"), want: models.Pairs("a", "x", "b", "y")},
		{name: "mapping projection", in: models.FromMapping(models.Pairs("b", "2", "c", "3")), want: models.Pairs("b", "2")},
		{name: "empty text", in: models.Text(""), want: models.NewMapping()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := mustParse(t, p, tt.in)
			m, ok := out.Mapping()
			if !ok {
				t.Fatalf("expected mapping, got %v", out.Kind())
			}
			if !m.Equal(tt.want) {
				t.Fatalf("got %v, want %v", out, models.FromMapping(tt.want))
			}
			if m.Has("b") != tt.want.Has("b") {
				t.Fatalf("key b presence mismatch")
			}
		})
	}
	if _, err := p.Parse(models.Record(1)); !errors.Is(err, ErrUnsupportedOutputType) {
		t.Fatalf("expected ErrUnsupportedOutputType, got: %v", err)
	}
}
