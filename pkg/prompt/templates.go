package prompt

import (
	"fmt"

	"github.com/baalimago/lamb/pkg/models"
)

// TextTemplate formats into text.
type TextTemplate struct {
	template string
	segs     []segment
}

func NewTextTemplate(template string) TextTemplate {
	return TextTemplate{template: template, segs: parse(template)}
}

func (t TextTemplate) Format(bindings models.Mapping) (models.Value, error) {
	s, err := substitute(t.segs, bindings)
	if err != nil {
		return models.Value{}, err
	}
	return models.Text(s), nil
}

// Placeholders in order of first appearance.
func (t TextTemplate) Placeholders() []string {
	return placeholders(t.segs, map[string]bool{}, nil)
}

func (t TextTemplate) String() string {
	return t.template
}

// MessageTemplate substitutes into the content of a message skeleton. The
// role is never touched.
type MessageTemplate struct {
	skeleton models.Message
	segs     []segment
}

func NewMessageTemplate(skeleton models.Message) MessageTemplate {
	return MessageTemplate{skeleton: skeleton, segs: parse(skeleton.Content())}
}

func (t MessageTemplate) Format(bindings models.Mapping) (models.Value, error) {
	m, err := t.format(bindings)
	if err != nil {
		return models.Value{}, err
	}
	return models.FromMessage(m), nil
}

func (t MessageTemplate) format(bindings models.Mapping) (models.Message, error) {
	content, err := substitute(t.segs, bindings)
	if err != nil {
		return models.Message{}, err
	}
	return t.skeleton.WithContent(content), nil
}

func (t MessageTemplate) Placeholders() []string {
	return placeholders(t.segs, map[string]bool{}, nil)
}

// ChatTemplate formats every skeleton independently, keeping their order.
type ChatTemplate struct {
	messages []MessageTemplate
}

func NewChatTemplate(skeletons ...models.Message) ChatTemplate {
	msgs := make([]MessageTemplate, 0, len(skeletons))
	for _, s := range skeletons {
		msgs = append(msgs, NewMessageTemplate(s))
	}
	return ChatTemplate{messages: msgs}
}

func (t ChatTemplate) Format(bindings models.Mapping) (models.Value, error) {
	out := make([]models.Message, 0, len(t.messages))
	for i, mt := range t.messages {
		m, err := mt.format(bindings)
		if err != nil {
			return models.Value{}, fmt.Errorf("failed to format message %d: %w", i, err)
		}
		out = append(out, m)
	}
	return models.Messages(out...), nil
}

func (t ChatTemplate) Placeholders() []string {
	seen := map[string]bool{}
	var ret []string
	for _, mt := range t.messages {
		ret = placeholders(mt.segs, seen, ret)
	}
	return ret
}

var (
	_ Template = TextTemplate{}
	_ Template = MessageTemplate{}
	_ Template = ChatTemplate{}
)
