// Package mock provides a scripted model gateway for tests and dry runs.
package mock

import (
	"context"
	"sync"

	"github.com/deskpilot/deskpilot/internal/schema"
)

// Turn is the scripted outcome of one Generate call.
type Turn struct {
	Fragments []schema.Fragment
	// Err is returned from Generate itself, before any fragment.
	Err error
}

// Call records what one Generate call received.
type Call struct {
	History schema.Messages
	Tools   []schema.ToolDescriptor
	Options schema.ChatOptions
}

// Gateway replays Turns in order. Once the script is exhausted the last
// turn is repeated, which makes endless tool loops easy to simulate.
type Gateway struct {
	Model string
	Turns []Turn

	mu    sync.Mutex
	calls []Call
}

func NewGateway(turns ...Turn) *Gateway {
	return &Gateway{Model: "mock-model", Turns: turns}
}

func (g *Gateway) DefaultModel() string { return g.Model }

func (g *Gateway) Generate(ctx context.Context, history schema.Messages, tools []schema.ToolDescriptor, opts schema.ChatOptions) (<-chan schema.Fragment, error) {
	g.mu.Lock()
	n := len(g.calls)
	g.calls = append(g.calls, Call{History: history.Clone(), Tools: tools, Options: opts})
	g.mu.Unlock()

	if len(g.Turns) == 0 {
		out := make(chan schema.Fragment)
		close(out)
		return out, nil
	}
	turn := g.Turns[min(n, len(g.Turns)-1)]
	if turn.Err != nil {
		return nil, turn.Err
	}

	out := make(chan schema.Fragment)
	go func() {
		defer close(out)
		for _, f := range turn.Fragments {
			select {
			case out <- f:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Calls returns a snapshot of the recorded calls.
func (g *Gateway) Calls() []Call {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Call, len(g.calls))
	copy(out, g.calls)
	return out
}

// Text scripts a turn that answers with the given text chunks.
func Text(chunks ...string) Turn {
	t := Turn{}
	for _, c := range chunks {
		t.Fragments = append(t.Fragments, schema.Fragment{Content: c})
	}
	t.Fragments = append(t.Fragments, schema.Fragment{FinishReason: "stop"})
	return t
}

// ToolCall scripts a turn that requests a single tool run, streaming the
// arguments in the given pieces.
func ToolCall(id, name string, argPieces ...string) Turn {
	t := Turn{Fragments: []schema.Fragment{{
		ToolCalls: []schema.ToolCallDelta{{Index: 0, ID: id, Name: name}},
	}}}
	for _, p := range argPieces {
		t.Fragments = append(t.Fragments, schema.Fragment{
			ToolCalls: []schema.ToolCallDelta{{Index: 0, Arguments: p}},
		})
	}
	t.Fragments = append(t.Fragments, schema.Fragment{FinishReason: "tool_calls"})
	return t
}
