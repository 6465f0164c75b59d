package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPromptValue = errors.New("invalid prompt value")
	ErrUnsupportedValue   = errors.New("unsupported value type")
)

type InvalidPromptValueError struct {
	Got Kind
}

func (e *InvalidPromptValueError) Error() string {
	return fmt.Sprintf("%v: got %v, expected one of: text, a single message, a non-empty sequence of messages", ErrInvalidPromptValue, e.Got)
}

func (e *InvalidPromptValueError) Is(target error) bool {
	return target == ErrInvalidPromptValue
}
