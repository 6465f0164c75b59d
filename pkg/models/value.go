package models

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Kind is the shape tag of a Value.
type Kind int

const (
	KindInvalid Kind = iota
	KindText
	KindMessage
	KindSequence
	KindMapping
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindMessage:
		return "message"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindRecord:
		return "record"
	default:
		return "invalid"
	}
}

// Value is the running value threaded through a chain. Exactly one of the
// backing fields is meaningful, as selected by kind. The zero Value is
// KindInvalid.
type Value struct {
	kind    Kind
	text    string
	msg     Message
	seq     []Value
	mapping Mapping
	record  any
}

func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

func FromMessage(m Message) Value {
	return Value{kind: KindMessage, msg: m}
}

func Sequence(vs ...Value) Value {
	return Value{kind: KindSequence, seq: slices.Clone(vs)}
}

func Strings(ss ...string) Value {
	seq := make([]Value, 0, len(ss))
	for _, s := range ss {
		seq = append(seq, Text(s))
	}
	return Value{kind: KindSequence, seq: seq}
}

func Messages(ms ...Message) Value {
	seq := make([]Value, 0, len(ms))
	for _, m := range ms {
		seq = append(seq, FromMessage(m))
	}
	return Value{kind: KindSequence, seq: seq}
}

func FromMapping(m Mapping) Value {
	return Value{kind: KindMapping, mapping: m}
}

// Record wraps an arbitrary structured result, such as the output of a
// schema parser.
func Record(v any) Value {
	return Value{kind: KindRecord, record: v}
}

// Of establishes a Value from a Go native at the boundary. Go maps carry no
// insertion order, so their keys are sorted.
func Of(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case string:
		return Text(x), nil
	case Message:
		return FromMessage(x), nil
	case []Message:
		return Messages(x...), nil
	case []string:
		return Strings(x...), nil
	case []Value:
		return Sequence(x...), nil
	case []any:
		seq := make([]Value, 0, len(x))
		for i, e := range x {
			ev, err := Of(e)
			if err != nil {
				return Value{}, fmt.Errorf("failed to convert element %d: %w", i, err)
			}
			seq = append(seq, ev)
		}
		return Value{kind: KindSequence, seq: seq}, nil
	case Mapping:
		return FromMapping(x), nil
	case map[string]string:
		entries := make([]Entry, 0, len(x))
		for _, k := range sortedKeys(x) {
			entries = append(entries, Entry{Key: k, Value: Text(x[k])})
		}
		return FromMapping(NewMapping(entries...)), nil
	case map[string]any:
		entries := make([]Entry, 0, len(x))
		for _, k := range sortedKeys(x) {
			ev, err := Of(x[k])
			if err != nil {
				return Value{}, fmt.Errorf("failed to convert key '%v': %w", k, err)
			}
			entries = append(entries, Entry{Key: k, Value: ev})
		}
		return FromMapping(NewMapping(entries...)), nil
	default:
		return Value{}, fmt.Errorf("%w: %T, accepted: string, Message, []Message, []string, []Value, []any, Mapping, map[string]string, map[string]any", ErrUnsupportedValue, v)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsValid() bool {
	return v.kind != KindInvalid
}

func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindText
}

func (v Value) Message() (Message, bool) {
	return v.msg, v.kind == KindMessage
}

// Sequence returns a copy of the elements.
func (v Value) Sequence() ([]Value, bool) {
	if v.kind != KindSequence {
		return nil, false
	}
	return slices.Clone(v.seq), true
}

func (v Value) Mapping() (Mapping, bool) {
	return v.mapping, v.kind == KindMapping
}

func (v Value) Record() (any, bool) {
	return v.record, v.kind == KindRecord
}

// Messages reports true only for a non-empty sequence made entirely of
// messages.
func (v Value) Messages() ([]Message, bool) {
	if v.kind != KindSequence || len(v.seq) == 0 {
		return nil, false
	}
	ret := make([]Message, 0, len(v.seq))
	for _, e := range v.seq {
		m, ok := e.Message()
		if !ok {
			return nil, false
		}
		ret = append(ret, m)
	}
	return ret, true
}

// String renders the value as plain text: messages by content, sequences
// joined by newline, mappings by values joined with a space and records as
// json.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindMessage:
		return v.msg.Content()
	case KindSequence:
		parts := make([]string, 0, len(v.seq))
		for _, e := range v.seq {
			parts = append(parts, e.String())
		}
		return strings.Join(parts, "\n")
	case KindMapping:
		parts := make([]string, 0, v.mapping.Len())
		for _, e := range v.mapping.Values() {
			parts = append(parts, e.String())
		}
		return strings.Join(parts, " ")
	case KindRecord:
		b, err := json.Marshal(v.record)
		if err != nil {
			return fmt.Sprintf("%v", v.record)
		}
		return string(b)
	default:
		return ""
	}
}

// Native converts the value into plain Go types: string, Message, []any,
// map[string]any or the record itself.
func (v Value) Native() any {
	switch v.kind {
	case KindText:
		return v.text
	case KindMessage:
		return v.msg
	case KindSequence:
		ret := make([]any, 0, len(v.seq))
		for _, e := range v.seq {
			ret = append(ret, e.Native())
		}
		return ret
	case KindMapping:
		ret := make(map[string]any, v.mapping.Len())
		for _, e := range v.mapping.Entries() {
			ret[e.Key] = e.Value.Native()
		}
		return ret
	case KindRecord:
		return v.record
	default:
		return nil
	}
}

// Equal compares shape and contents. Mapping comparison is order sensitive.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == o.text
	case KindMessage:
		return v.msg == o.msg
	case KindSequence:
		return slices.EqualFunc(v.seq, o.seq, Value.Equal)
	case KindMapping:
		return v.mapping.Equal(o.mapping)
	case KindRecord:
		return reflect.DeepEqual(v.record, o.record)
	default:
		return true
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindMessage:
		return json.Marshal(v.msg)
	case KindSequence:
		if v.seq == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.seq)
	case KindMapping:
		return json.Marshal(v.mapping)
	case KindRecord:
		return json.Marshal(v.record)
	default:
		return []byte("null"), nil
	}
}
