package agent

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/deskpilot/deskpilot/internal/schema"
	"github.com/deskpilot/deskpilot/internal/shared/llmutils"
)

// callBuf collects the pieces of one streamed tool call.
type callBuf struct {
	id   string
	name string
	args strings.Builder
}

// Accumulator folds streamed fragments into one assistant message.
// It keeps only running buffers, never the fragments themselves.
type Accumulator struct {
	content strings.Builder
	calls   map[int]*callBuf
	order   []int
	finish  string
}

func NewAccumulator() *Accumulator {
	return &Accumulator{calls: make(map[int]*callBuf)}
}

// Add folds f into the running message.
func (a *Accumulator) Add(f schema.Fragment) {
	a.content.WriteString(f.Content)
	for _, d := range f.ToolCalls {
		buf, ok := a.calls[d.Index]
		if !ok {
			buf = &callBuf{}
			a.calls[d.Index] = buf
			a.order = append(a.order, d.Index)
		}
		if buf.id == "" && d.ID != "" {
			buf.id = d.ID
		}
		if buf.name == "" && d.Name != "" {
			buf.name = d.Name
		}
		buf.args.WriteString(d.Arguments)
	}
	if f.FinishReason != "" {
		a.finish = f.FinishReason
	}
}

// Content returns the text gathered so far.
func (a *Accumulator) Content() string { return a.content.String() }

// FinishReason returns the last finish reason reported by the stream.
func (a *Accumulator) FinishReason() string { return a.finish }

// Message assembles the merged assistant message. Tool calls keep the order
// in which the model started them; argument text is parsed as JSON.
func (a *Accumulator) Message() (schema.Message, error) {
	var calls []schema.ToolCall
	seen := make(map[string]bool, len(a.order))
	for _, idx := range a.order {
		buf := a.calls[idx]
		args, err := llmutils.RepairJSON(buf.args.String())
		if err != nil {
			return a.partial(), &schema.GenerationError{Op: "parse arguments of " + buf.name, Err: err}
		}
		id := buf.id
		if id == "" || seen[id] {
			id = "call_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
		}
		seen[id] = true
		calls = append(calls, schema.ToolCall{ID: id, Name: buf.name, Arguments: args})
	}
	return schema.NewAssistantMessage(a.content.String(), calls), nil
}

func (a *Accumulator) partial() schema.Message {
	return schema.NewAssistantMessage(a.content.String(), nil)
}

// Accumulate drains in, handing every fragment to forward as soon as it
// arrives and folding it into the merged message. On failure the returned
// message holds the text received before the error.
func Accumulate(ctx context.Context, in <-chan schema.Fragment, forward func(schema.Fragment)) (schema.Message, error) {
	acc := NewAccumulator()
	for {
		select {
		case f, ok := <-in:
			if !ok {
				if err := ctx.Err(); err != nil {
					return acc.partial(), &schema.GenerationError{Op: "stream", Err: err}
				}
				return acc.Message()
			}
			if forward != nil {
				forward(f)
			}
			if f.Err != nil {
				return acc.partial(), asGenerationError(f.Err)
			}
			acc.Add(f)
		case <-ctx.Done():
			return acc.partial(), &schema.GenerationError{Op: "stream", Err: ctx.Err()}
		}
	}
}

func asGenerationError(err error) error {
	var genErr *schema.GenerationError
	if errors.As(err, &genErr) {
		return err
	}
	return &schema.GenerationError{Op: "stream", Err: err}
}
