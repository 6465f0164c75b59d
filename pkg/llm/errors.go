package llm

import (
	"errors"
	"fmt"
)

var ErrModelInvocation = errors.New("model invocation failed")

// ModelInvocationError carries a backend failure. The cause is kept as is,
// so timeouts, auth and rate limit errors can be matched with errors.Is and
// errors.As.
type ModelInvocationError struct {
	Model string
	Err   error
}

func (e *ModelInvocationError) Error() string {
	return fmt.Sprintf("%v: %v: %v", ErrModelInvocation, e.Model, e.Err)
}

func (e *ModelInvocationError) Unwrap() error {
	return e.Err
}

func (e *ModelInvocationError) Is(target error) bool {
	return target == ErrModelInvocation
}
