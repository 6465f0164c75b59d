// Package prompt formats text, single messages and message sequences from
// templates with named {placeholder}s.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/baalimago/lamb/pkg/models"
)

var ErrMissingBinding = errors.New("missing binding")

type MissingBindingError struct {
	Name string
}

func (e *MissingBindingError) Error() string {
	return fmt.Sprintf("%v: no value bound to placeholder '{%v}'", ErrMissingBinding, e.Name)
}

func (e *MissingBindingError) Is(target error) bool {
	return target == ErrMissingBinding
}

// Template is implemented by every formatter. Unused bindings are ignored.
type Template interface {
	Format(bindings models.Mapping) (models.Value, error)
}

type segment struct {
	literal     string
	placeholder string
}

// parse splits s into literal and placeholder segments. '{{' and '}}' are
// literal braces and any brace not enclosing an identifier is kept as is.
func parse(s string) []segment {
	var (
		segs []segment
		lit  strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{literal: lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '{' && i+1 < len(s) && s[i+1] == '{':
			lit.WriteByte('{')
			i++
		case c == '}' && i+1 < len(s) && s[i+1] == '}':
			lit.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(s[i+1:], '}')
			if end < 0 || !isIdentifier(s[i+1:i+1+end]) {
				lit.WriteByte(c)
				continue
			}
			flush()
			segs = append(segs, segment{placeholder: s[i+1 : i+1+end]})
			i += end + 1
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return segs
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func substitute(segs []segment, bindings models.Mapping) (string, error) {
	var sb strings.Builder
	for _, seg := range segs {
		if seg.placeholder == "" {
			sb.WriteString(seg.literal)
			continue
		}
		v, ok := bindings.Get(seg.placeholder)
		if !ok {
			return "", &MissingBindingError{Name: seg.placeholder}
		}
		sb.WriteString(v.String())
	}
	return sb.String(), nil
}

func placeholders(segs []segment, seen map[string]bool, into []string) []string {
	for _, seg := range segs {
		if seg.placeholder != "" && !seen[seg.placeholder] {
			seen[seg.placeholder] = true
			into = append(into, seg.placeholder)
		}
	}
	return into
}
