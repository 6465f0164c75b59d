package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/baalimago/lamb/pkg/models"
	"github.com/google/jsonschema-go/jsonschema"
)

// Schema is the collaborator a SchemaParser coerces output through.
// Implementations fail with a *SchemaValidationError on mismatch.
type Schema[T any] interface {
	FromText(s string) (T, error)
	FromPositional(vals []models.Value) (T, error)
	FromFields(fields models.Mapping) (T, error)
}

// SchemaParser reads text as a serialized record, a sequence as positional
// field values and a mapping as a field map.
type SchemaParser[T any] struct {
	schema Schema[T]
}

func NewSchemaParser[T any](schema Schema[T]) SchemaParser[T] {
	return SchemaParser[T]{schema: schema}
}

func (p SchemaParser[T]) Parse(output models.Value) (models.Value, error) {
	var (
		rec T
		err error
	)
	switch output.Kind() {
	case models.KindText, models.KindMessage:
		s, _ := scalar(output)
		rec, err = p.schema.FromText(s)
	case models.KindSequence:
		seq, _ := output.Sequence()
		rec, err = p.schema.FromPositional(seq)
	case models.KindMapping:
		m, _ := output.Mapping()
		rec, err = p.schema.FromFields(m)
	default:
		return models.Value{}, &UnsupportedOutputTypeError{Parser: "schema", Got: output.Kind()}
	}
	if err != nil {
		if errors.Is(err, ErrSchemaValidation) {
			return models.Value{}, err
		}
		return models.Value{}, &SchemaValidationError{Err: err}
	}
	return models.Record(rec), nil
}

// JSONSchema infers a json schema from the struct T. Fields whose json tag
// lacks omitempty are required and unknown fields are rejected. Positional
// values are matched to fields in declaration order.
type JSONSchema[T any] struct {
	resolved *jsonschema.Resolved
	schema   *jsonschema.Schema
	fields   []string
}

func NewJSONSchema[T any]() (*JSONSchema[T], error) {
	s, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, fmt.Errorf("failed to infer schema: %w", err)
	}
	resolved, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve schema: %w", err)
	}
	return &JSONSchema[T]{
		resolved: resolved,
		schema:   s,
		fields:   jsonFieldNames(reflect.TypeFor[T]()),
	}, nil
}

// Fields in positional order.
func (s *JSONSchema[T]) Fields() []string {
	return slices.Clone(s.fields)
}

func (s *JSONSchema[T]) FromText(text string) (T, error) {
	var instance any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &instance); err != nil {
		var zero T
		return zero, &SchemaValidationError{Err: fmt.Errorf("failed to unmarshal record: %w", err)}
	}
	if obj, ok := instance.(map[string]any); ok {
		for k, v := range obj {
			obj[k] = s.coerce(k, v)
		}
	}
	return s.build(instance)
}

func (s *JSONSchema[T]) FromPositional(vals []models.Value) (T, error) {
	if len(vals) > len(s.fields) {
		var zero T
		return zero, &SchemaValidationError{Err: fmt.Errorf("got %d positional values for %d fields", len(vals), len(s.fields))}
	}
	entries := make([]models.Entry, 0, len(vals))
	for i, v := range vals {
		entries = append(entries, models.Entry{Key: s.fields[i], Value: v})
	}
	return s.FromFields(models.NewMapping(entries...))
}

func (s *JSONSchema[T]) FromFields(fields models.Mapping) (T, error) {
	instance := make(map[string]any, fields.Len())
	for _, e := range fields.Entries() {
		instance[e.Key] = s.coerce(e.Key, jsonLike(e.Value))
	}
	return s.build(instance)
}

func (s *JSONSchema[T]) build(instance any) (T, error) {
	var ret T
	if err := s.resolved.Validate(instance); err != nil {
		return ret, &SchemaValidationError{Err: err}
	}
	b, err := json.Marshal(instance)
	if err != nil {
		return ret, &SchemaValidationError{Err: fmt.Errorf("failed to marshal instance: %w", err)}
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ret); err != nil {
		return ret, &SchemaValidationError{Err: fmt.Errorf("failed to decode record: %w", err)}
	}
	return ret, nil
}

// coerce converts text into the scalar type the field declares. Values that
// cannot be converted are left for validation to report.
func (s *JSONSchema[T]) coerce(field string, v any) any {
	str, ok := v.(string)
	if !ok || s.schema == nil {
		return v
	}
	prop, ok := s.schema.Properties[field]
	if !ok || prop == nil {
		return v
	}
	types := slices.Clone(prop.Types)
	if prop.Type != "" {
		types = append(types, prop.Type)
	}
	str = strings.TrimSpace(str)
	for _, t := range types {
		switch t {
		case "integer":
			if n, err := strconv.ParseInt(str, 10, 64); err == nil {
				return float64(n)
			}
		case "number":
			if f, err := strconv.ParseFloat(str, 64); err == nil {
				return f
			}
		case "boolean":
			if b, err := strconv.ParseBool(str); err == nil {
				return b
			}
		case "string":
			return v
		}
	}
	return v
}

// jsonLike converts a Value into the shapes encoding/json produces.
func jsonLike(v models.Value) any {
	switch v.Kind() {
	case models.KindText, models.KindMessage:
		s, _ := scalar(v)
		return s
	case models.KindSequence:
		seq, _ := v.Sequence()
		ret := make([]any, 0, len(seq))
		for _, e := range seq {
			ret = append(ret, jsonLike(e))
		}
		return ret
	case models.KindMapping:
		m, _ := v.Mapping()
		ret := make(map[string]any, m.Len())
		for _, e := range m.Entries() {
			ret[e.Key] = jsonLike(e.Value)
		}
		return ret
	case models.KindRecord:
		rec, _ := v.Record()
		b, err := json.Marshal(rec)
		if err != nil {
			return nil
		}
		var ret any
		if err := json.Unmarshal(b, &ret); err != nil {
			return nil
		}
		return ret
	}
	return nil
}

func jsonFieldNames(t reflect.Type) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	var ret []string
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		ret = append(ret, name)
	}
	return ret
}
