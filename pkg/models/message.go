package models

import (
	"encoding/json"
	"fmt"
)

type Role string

const (
	RoleHuman  Role = "human"
	RoleAI     Role = "ai"
	RoleSystem Role = "system"
)

func (r Role) Valid() bool {
	switch r {
	case RoleHuman, RoleAI, RoleSystem:
		return true
	}
	return false
}

// Message is immutable. Use WithContent to derive a new one.
type Message struct {
	role    Role
	content string
}

// NewMessage validates the role before constructing the message.
func NewMessage(role Role, content string) (Message, error) {
	if !role.Valid() {
		return Message{}, fmt.Errorf("unknown role: '%v', expected one of: %v, %v, %v", role, RoleHuman, RoleAI, RoleSystem)
	}
	return Message{role: role, content: content}, nil
}

func HumanMessage(content string) Message {
	return Message{role: RoleHuman, content: content}
}

func AIMessage(content string) Message {
	return Message{role: RoleAI, content: content}
}

func SystemMessage(content string) Message {
	return Message{role: RoleSystem, content: content}
}

func (m Message) Role() Role {
	return m.role
}

func (m Message) Content() string {
	return m.content
}

// WithContent returns a copy of the message with the same role.
func (m Message) WithContent(content string) Message {
	return Message{role: m.role, content: content}
}

func (m Message) String() string {
	return fmt.Sprintf("%v: %v", m.role, m.content)
}

type messageJSON struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(messageJSON{Role: m.role, Content: m.content})
}

func (m *Message) UnmarshalJSON(b []byte) error {
	var raw messageJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	msg, err := NewMessage(raw.Role, raw.Content)
	if err != nil {
		return err
	}
	*m = msg
	return nil
}
