package schema

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorKind(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&GenerationError{Op: "stream", Err: cause}, KindGeneration},
		{fmt.Errorf("turn: %w", &ToolLookupError{Name: "x"}), KindToolLookup},
		{&ToolExecutionError{Tool: "x", Err: cause}, KindToolExecution},
		{&RecursionBoundError{Limit: 5}, KindRecursionBound},
		{&GenerationError{Err: context.Canceled}, KindCancelled},
		{cause, KindInternal},
	}
	for _, tt := range tests {
		if got := ErrorKind(tt.err); got != tt.want {
			t.Errorf("ErrorKind(%v): expected %q, got %q", tt.err, tt.want, got)
		}
	}
}

func TestToolExecutionError_Unwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := error(&ToolExecutionError{Tool: "save", Err: cause})
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
	if err.Error() != `tool "save" failed: disk full` {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
