package models

import "strings"

// PromptValue is backed by exactly one of: text, a single message or a
// non-empty sequence of messages.
type PromptValue struct {
	backing Value
}

func NewPromptValue(v Value) (PromptValue, error) {
	switch v.Kind() {
	case KindText, KindMessage:
		return PromptValue{backing: v}, nil
	case KindSequence:
		if _, ok := v.Messages(); ok {
			return PromptValue{backing: v}, nil
		}
	}
	return PromptValue{}, &InvalidPromptValueError{Got: v.Kind()}
}

// ToText joins message contents with newline, in order, if backed by
// messages.
func (p PromptValue) ToText() string {
	switch p.backing.Kind() {
	case KindText:
		s, _ := p.backing.Text()
		return s
	case KindMessage:
		m, _ := p.backing.Message()
		return m.Content()
	}
	msgs, _ := p.backing.Messages()
	contents := make([]string, 0, len(msgs))
	for _, m := range msgs {
		contents = append(contents, m.Content())
	}
	return strings.Join(contents, "\n")
}

// ToMessages wraps bare text as a single human message.
func (p PromptValue) ToMessages() []Message {
	switch p.backing.Kind() {
	case KindText:
		s, _ := p.backing.Text()
		return []Message{HumanMessage(s)}
	case KindMessage:
		m, _ := p.backing.Message()
		return []Message{m}
	}
	msgs, _ := p.backing.Messages()
	return msgs
}

// Value returns the backing value, unchanged.
func (p PromptValue) Value() Value {
	return p.backing
}
