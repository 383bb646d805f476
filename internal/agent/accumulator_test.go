package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/deskpilot/deskpilot/internal/schema"
)

func feed(frags ...schema.Fragment) <-chan schema.Fragment {
	ch := make(chan schema.Fragment, len(frags))
	for _, f := range frags {
		ch <- f
	}
	close(ch)
	return ch
}

func TestAccumulate_TextOnly(t *testing.T) {
	chunks := []string{"The ", "folder ", "", "has ", "three files."}
	var frags []schema.Fragment
	for _, c := range chunks {
		frags = append(frags, schema.Fragment{Content: c})
	}

	var forwarded []schema.Fragment
	msg, err := Accumulate(context.Background(), feed(frags...), func(f schema.Fragment) {
		forwarded = append(forwarded, f)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.HasToolCalls() {
		t.Errorf("expected no tool calls, got %+v", msg.ToolCalls)
	}
	if want := strings.Join(chunks, ""); msg.Content != want {
		t.Errorf("expected %q, got %q", want, msg.Content)
	}
	if msg.Role != schema.RoleAssistant {
		t.Errorf("expected assistant role, got %q", msg.Role)
	}
	if len(forwarded) != len(frags) {
		t.Fatalf("expected %d forwarded fragments, got %d", len(frags), len(forwarded))
	}
	for i := range frags {
		if forwarded[i].Content != frags[i].Content {
			t.Errorf("fragment %d modified: %q != %q", i, forwarded[i].Content, frags[i].Content)
		}
	}
}

func TestAccumulate_SingleToolCall(t *testing.T) {
	pieces := []string{`{"fol`, `der_id"`, `: "X", "mime`, `_type": "application/pdf"}`}
	frags := []schema.Fragment{{ToolCalls: []schema.ToolCallDelta{{Index: 0, ID: "call_1", Name: "google_drive_lister"}}}}
	for _, p := range pieces {
		frags = append(frags, schema.Fragment{ToolCalls: []schema.ToolCallDelta{{Index: 0, Arguments: p}}})
	}
	frags = append(frags, schema.Fragment{FinishReason: "tool_calls"})

	msg, err := Accumulate(context.Background(), feed(frags...), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msg.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(msg.ToolCalls))
	}
	tc := msg.ToolCalls[0]
	if tc.ID != "call_1" || tc.Name != "google_drive_lister" {
		t.Errorf("unexpected call %+v", tc)
	}
	if tc.Arguments["folder_id"] != "X" || tc.Arguments["mime_type"] != "application/pdf" || len(tc.Arguments) != 2 {
		t.Errorf("unexpected arguments %v", tc.Arguments)
	}
}

func TestAccumulate_InterleavedCallsKeepOrder(t *testing.T) {
	frags := []schema.Fragment{
		{Content: "Working on it. "},
		{ToolCalls: []schema.ToolCallDelta{
			{Index: 0, ID: "a", Name: "first", Arguments: `{"n":`},
			{Index: 1, ID: "b", Name: "second", Arguments: `{}`},
		}},
		{ToolCalls: []schema.ToolCallDelta{{Index: 0, Arguments: `1}`}}},
	}
	msg, err := Accumulate(context.Background(), feed(frags...), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msg.ToolCalls) != 2 || msg.ToolCalls[0].Name != "first" || msg.ToolCalls[1].Name != "second" {
		t.Fatalf("unexpected calls %+v", msg.ToolCalls)
	}
	if msg.ToolCalls[0].Arguments["n"] != float64(1) {
		t.Errorf("unexpected args %v", msg.ToolCalls[0].Arguments)
	}
	if msg.Content != "Working on it. " {
		t.Errorf("unexpected content %q", msg.Content)
	}
}

func TestAccumulate_FillsMissingAndDuplicateIDs(t *testing.T) {
	frags := []schema.Fragment{{ToolCalls: []schema.ToolCallDelta{
		{Index: 0, Name: "one"},
		{Index: 1, ID: "dup", Name: "two"},
		{Index: 2, ID: "dup", Name: "three"},
	}}}
	msg, err := Accumulate(context.Background(), feed(frags...), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := map[string]bool{}
	for _, tc := range msg.ToolCalls {
		if tc.ID == "" {
			t.Errorf("call %s has no id", tc.Name)
		}
		ids[tc.ID] = true
	}
	if len(ids) != 3 {
		t.Errorf("expected 3 distinct ids, got %v", ids)
	}
	if !strings.HasPrefix(msg.ToolCalls[0].ID, "call_") {
		t.Errorf("expected generated id, got %q", msg.ToolCalls[0].ID)
	}
}

func TestAccumulate_StreamErrorKeepsPartialText(t *testing.T) {
	boom := &schema.GenerationError{Op: "read stream", Err: errors.New("connection reset")}
	msg, err := Accumulate(context.Background(), feed(
		schema.Fragment{Content: "Partial "},
		schema.Fragment{Content: "answer"},
		schema.Fragment{Err: boom},
	), nil)

	if !errors.Is(err, boom) {
		t.Fatalf("expected stream error, got %v", err)
	}
	if msg.Content != "Partial answer" || msg.HasToolCalls() {
		t.Errorf("unexpected partial message %+v", msg)
	}
}

func TestAccumulate_MalformedArguments(t *testing.T) {
	_, err := Accumulate(context.Background(), feed(
		schema.Fragment{ToolCalls: []schema.ToolCallDelta{{Index: 0, ID: "a", Name: "x", Arguments: "not json"}}},
	), nil)
	var genErr *schema.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
}

func TestAccumulate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan schema.Fragment)
	cancel()

	_, err := Accumulate(ctx, in, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if schema.ErrorKind(err) != schema.KindCancelled {
		t.Errorf("expected cancelled kind, got %q", schema.ErrorKind(err))
	}
}
