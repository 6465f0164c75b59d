// Package parser normalizes raw model output into a requested shape. Every
// parser is total over the shapes it declares and fails with
// ErrUnsupportedOutputType outside of them. A chat model's reply message is
// read as its text content.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/baalimago/lamb/pkg/models"
)

var (
	ErrUnsupportedOutputType = errors.New("unsupported output type")
	ErrSchemaValidation      = errors.New("schema validation failed")
)

type UnsupportedOutputTypeError struct {
	Parser string
	Got    models.Kind
}

func (e *UnsupportedOutputTypeError) Error() string {
	return fmt.Sprintf("%v: %v parser cannot handle %v", ErrUnsupportedOutputType, e.Parser, e.Got)
}

func (e *UnsupportedOutputTypeError) Is(target error) bool {
	return target == ErrUnsupportedOutputType
}

type SchemaValidationError struct {
	Err error
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("%v: %v", ErrSchemaValidation, e.Err)
}

func (e *SchemaValidationError) Unwrap() error {
	return e.Err
}

func (e *SchemaValidationError) Is(target error) bool {
	return target == ErrSchemaValidation
}

type Parser interface {
	Parse(output models.Value) (models.Value, error)
}

// scalar returns the text of a text or message value.
func scalar(v models.Value) (string, bool) {
	if s, ok := v.Text(); ok {
		return s, true
	}
	if m, ok := v.Message(); ok {
		return m.Content(), true
	}
	return "", false
}

func joinScalars(name string, vs []models.Value) (string, error) {
	parts := make([]string, 0, len(vs))
	for _, v := range vs {
		s, ok := scalar(v)
		if !ok {
			return "", &UnsupportedOutputTypeError{Parser: name, Got: v.Kind()}
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " "), nil
}

// Passthrough returns its input unchanged.
type Passthrough struct{}

func (Passthrough) Parse(output models.Value) (models.Value, error) {
	return output, nil
}

// Text joins sequences and mapping values with a single space.
type Text struct{}

func (Text) Parse(output models.Value) (models.Value, error) {
	switch output.Kind() {
	case models.KindText, models.KindMessage:
		s, _ := scalar(output)
		return models.Text(s), nil
	case models.KindSequence:
		seq, _ := output.Sequence()
		s, err := joinScalars("text", seq)
		if err != nil {
			return models.Value{}, err
		}
		return models.Text(s), nil
	case models.KindMapping:
		m, _ := output.Mapping()
		s, err := joinScalars("text", m.Values())
		if err != nil {
			return models.Value{}, err
		}
		return models.Text(s), nil
	}
	return models.Value{}, &UnsupportedOutputTypeError{Parser: "text", Got: output.Kind()}
}

// List turns text into a singleton sequence and a mapping into its values.
type List struct{}

func (List) Parse(output models.Value) (models.Value, error) {
	switch output.Kind() {
	case models.KindText, models.KindMessage:
		s, _ := scalar(output)
		return models.Strings(s), nil
	case models.KindSequence:
		return output, nil
	case models.KindMapping:
		m, _ := output.Mapping()
		return models.Sequence(m.Values()...), nil
	}
	return models.Value{}, &UnsupportedOutputTypeError{Parser: "list", Got: output.Kind()}
}

// Keyed pairs positional output with its keys. Pairing stops at the shorter
// side: surplus tokens are dropped and surplus keys are absent from the
// result, never defaulted.
type Keyed struct {
	keys []string
}

func NewKeyed(keys ...string) Keyed {
	return Keyed{keys: append([]string(nil), keys...)}
}

func (k Keyed) Keys() []string {
	return append([]string(nil), k.keys...)
}

func (k Keyed) Parse(output models.Value) (models.Value, error) {
	switch output.Kind() {
	case models.KindText, models.KindMessage:
		s, _ := scalar(output)
		return models.FromMapping(k.zip(models.Strings(strings.Fields(s)...))), nil
	case models.KindSequence:
		return models.FromMapping(k.zip(output)), nil
	case models.KindMapping:
		m, _ := output.Mapping()
		return models.FromMapping(m.Pick(k.keys)), nil
	}
	return models.Value{}, &UnsupportedOutputTypeError{Parser: "keyed", Got: output.Kind()}
}

func (k Keyed) zip(seqValue models.Value) models.Mapping {
	seq, _ := seqValue.Sequence()
	n := min(len(k.keys), len(seq))
	entries := make([]models.Entry, 0, n)
	for i := range n {
		entries = append(entries, models.Entry{Key: k.keys[i], Value: seq[i]})
	}
	return models.NewMapping(entries...)
}

var (
	_ Parser = Passthrough{}
	_ Parser = Text{}
	_ Parser = List{}
	_ Parser = Keyed{}
)
