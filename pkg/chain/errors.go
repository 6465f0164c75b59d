package chain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidStep   = errors.New("invalid step")
	ErrStepExecution = errors.New("step execution failed")
	ErrMissingKey    = errors.New("missing key")
)

// StepExecutionError carries the position and kind of the failing step.
type StepExecutionError struct {
	Index int
	Kind  StepKind
	Err   error
}

func (e *StepExecutionError) Error() string {
	return fmt.Sprintf("%v: step %d (%v): %v", ErrStepExecution, e.Index, e.Kind, e.Err)
}

func (e *StepExecutionError) Unwrap() error {
	return e.Err
}

func (e *StepExecutionError) Is(target error) bool {
	return target == ErrStepExecution
}

// MissingKeyError is returned before a sequential stage runs if its context
// lacks a declared input key.
type MissingKeyError struct {
	Stage int
	Key   string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%v: stage %d requires key '%v'", ErrMissingKey, e.Stage, e.Key)
}

func (e *MissingKeyError) Is(target error) bool {
	return target == ErrMissingKey
}
