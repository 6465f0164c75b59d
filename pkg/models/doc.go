// Package models contains the public data structures shared by the
// prompt, llm, parser and chain packages.
//
// The main entry points are:
//
//   - Message:     an immutable, role tagged unit of dialogue.
//   - Value:       the tagged union {Text, Message, Sequence, Mapping, Record}
//     which every pipeline step consumes and produces.
//   - Mapping:     an insertion ordered key/value map of Values.
//   - PromptValue: a prompt normalized into interchangeable text and
//     message sequence views.
//
// Values are established once at the boundary with Of, after which every
// downstream component switches on Value.Kind instead of inspecting Go types.
package models
