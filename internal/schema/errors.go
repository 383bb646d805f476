package schema

import (
	"context"
	"errors"
	"fmt"
)

// GenerationError reports that the model gateway failed or was interrupted.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("generation failed: %v", e.Err)
	}
	return fmt.Sprintf("generation failed: %s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ToolLookupError reports a call to a tool that is not registered.
type ToolLookupError struct {
	Name string
}

func (e *ToolLookupError) Error() string {
	return fmt.Sprintf("tool %q not found", e.Name)
}

// ToolExecutionError reports a registered tool that could not run.
type ToolExecutionError struct {
	Tool string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %q failed: %v", e.Tool, e.Err)
}

func (e *ToolExecutionError) Unwrap() error { return e.Err }

// RecursionBoundError reports a turn that asked for more tool rounds than allowed.
type RecursionBoundError struct {
	Limit int
}

func (e *RecursionBoundError) Error() string {
	return fmt.Sprintf("recursion bound exceeded: more than %d tool rounds in one turn", e.Limit)
}

// Error kinds reported to callers.
const (
	KindGeneration     = "generation"
	KindToolLookup     = "tool_lookup"
	KindToolExecution  = "tool_execution"
	KindRecursionBound = "recursion_bound"
	KindCancelled      = "cancelled"
	KindInternal       = "internal"
)

// ErrorKind classifies err for presentation.
func ErrorKind(err error) string {
	var (
		genErr   *GenerationError
		lookErr  *ToolLookupError
		execErr  *ToolExecutionError
		boundErr *RecursionBoundError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return KindCancelled
	case errors.As(err, &lookErr):
		return KindToolLookup
	case errors.As(err, &execErr):
		return KindToolExecution
	case errors.As(err, &boundErr):
		return KindRecursionBound
	case errors.As(err, &genErr):
		return KindGeneration
	default:
		return KindInternal
	}
}
