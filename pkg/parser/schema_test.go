package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
	"github.com/baalimago/lamb/pkg/models"
)

type person struct {
	Name     string `json:"name"`
	Age      int    `json:"age"`
	Employed bool   `json:"employed,omitempty"`
}

func newPersonParser(t *testing.T) SchemaParser[person] {
	t.Helper()
	s, err := NewJSONSchema[person]()
	if err != nil {
		t.Fatalf("failed to build schema: %v", err)
	}
	return NewSchemaParser[person](s)
}

func record(t *testing.T, v models.Value) person {
	t.Helper()
	rec, ok := v.Record()
	if !ok {
		t.Fatalf("expected record, got %v", v.Kind())
	}
	p, ok := rec.(person)
	if !ok {
		t.Fatalf("expected person, got %T", rec)
	}
	return p
}

func TestJSONSchema_Fields(t *testing.T) {
	s, err := NewJSONSchema[person]()
	if err != nil {
		t.Fatalf("failed to build schema: %v", err)
	}
	testboil.FailTestIfDiff(t, strings.Join(s.Fields(), ","), "name,age,employed")
}

func TestSchemaParser_Text(t *testing.T) {
	p := newPersonParser(t)
	out, err := p.Parse(models.Text(` {"name": "Ada", "age": 36} `))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := record(t, out); got != (person{Name: "Ada", Age: 36}) {
		t.Fatalf("got %+v", got)
	}
}

func TestSchemaParser_TextCoercesQuotedScalars(t *testing.T) {
	p := newPersonParser(t)
	out, err := p.Parse(models.Text(`{"name": "Ada", "age": " 36 ", "employed": "true"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := record(t, out); got != (person{Name: "Ada", Age: 36, Employed: true}) {
		t.Fatalf("got %+v", got)
	}

	_, err = p.Parse(models.Text(`{"name": "Ada", "age": "old"}`))
	var sve *SchemaValidationError
	if !errors.As(err, &sve) {
		t.Fatalf("expected SchemaValidationError, got: %v", err)
	}
}

func TestSchemaParser_Positional(t *testing.T) {
	p := newPersonParser(t)
	out, err := p.Parse(models.Strings("Ada", "36", "true"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := record(t, out); got != (person{Name: "Ada", Age: 36, Employed: true}) {
		t.Fatalf("got %+v", got)
	}
}

func TestSchemaParser_Fields(t *testing.T) {
	p := newPersonParser(t)
	out, err := p.Parse(models.FromMapping(models.Pairs("age", "7", "name", "Bo")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := record(t, out); got != (person{Name: "Bo", Age: 7}) {
		t.Fatalf("got %+v", got)
	}
}

func TestSchemaParser_Mismatch(t *testing.T) {
	p := newPersonParser(t)
	tests := []struct {
		name string
		in   models.Value
	}{
		{name: "not json", in: models.Text("Ada is 36")},
		{name: "wrong type", in: models.Text(`{"name": "Ada", "age": "old"}`)},
		{name: "missing required", in: models.Text(`{"name": "Ada"}`)},
		{name: "unknown field", in: models.FromMapping(models.Pairs("name", "a", "age", "1", "height", "2"))},
		{name: "uncoercible positional", in: models.Strings("Ada", "thirty")},
		{name: "too many positional", in: models.Strings("Ada", "1", "true", "extra")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(tt.in)
			if !errors.Is(err, ErrSchemaValidation) {
				t.Fatalf("expected ErrSchemaValidation, got: %v", err)
			}
		})
	}
}

func TestSchemaParser_Unsupported(t *testing.T) {
	p := newPersonParser(t)
	_, err := p.Parse(models.Record(person{}))
	if !errors.Is(err, ErrUnsupportedOutputType) {
		t.Fatalf("expected ErrUnsupportedOutputType, got: %v", err)
	}
}

type stubSchema struct{}

func (stubSchema) FromText(s string) (string, error) {
	return "", errors.New("plain failure")
}

func (stubSchema) FromPositional(vals []models.Value) (string, error) {
	return "positional", nil
}

func (stubSchema) FromFields(fields models.Mapping) (string, error) {
	return "fields", nil
}

func TestSchemaParser_WrapsCollaboratorErrors(t *testing.T) {
	p := NewSchemaParser[string](stubSchema{})
	_, err := p.Parse(models.Text("x"))
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got: %v", err)
	}
	out, err := p.Parse(models.Strings("x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec, _ := out.Record()
	testboil.FailTestIfDiff(t, rec.(string), "positional")
}
