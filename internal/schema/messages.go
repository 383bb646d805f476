package schema

import (
	"errors"
	"fmt"
)

// ErrOrphanToolResult is returned when a tool result does not answer an
// open invocation of the latest assistant message.
var ErrOrphanToolResult = errors.New("tool result does not match a pending tool call")

// Messages is the ordered, append-only conversation history.
// It owns typed append methods so callers never construct raw messages.
type Messages struct {
	Messages []Message
}

// NewMessages returns a Messages initialised with the given messages.
// Called with no arguments it returns an empty Messages ready for use.
func NewMessages(msgs ...Message) Messages {
	if len(msgs) == 0 {
		return Messages{Messages: make([]Message, 0)}
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return Messages{Messages: out}
}

// Len returns the number of messages.
func (mh Messages) Len() int { return len(mh.Messages) }

// Last returns the newest message, if any.
func (mh Messages) Last() (Message, bool) {
	if len(mh.Messages) == 0 {
		return Message{}, false
	}
	return mh.Messages[len(mh.Messages)-1], true
}

// AddSystem appends a system message.
func (mh *Messages) AddSystem(content string) {
	mh.Messages = append(mh.Messages, NewSystemMessage(content))
}

// AddUser appends a user message.
func (mh *Messages) AddUser(content string) {
	mh.Messages = append(mh.Messages, NewUserMessage(content))
}

// AddAssistant appends an assistant message with optional tool calls.
func (mh *Messages) AddAssistant(content string, toolCalls []ToolCall) {
	mh.Messages = append(mh.Messages, NewAssistantMessage(content, toolCalls))
}

// AddToolResult appends a tool-result message. The id must belong to a call
// of the most recent assistant message that has not been answered yet.
func (mh *Messages) AddToolResult(toolCallID, toolName, result string) error {
	pending := mh.PendingToolCalls()
	for _, tc := range pending {
		if tc.ID == toolCallID {
			mh.Messages = append(mh.Messages, NewToolResultMessage(toolCallID, toolName, result))
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrOrphanToolResult, toolCallID)
}

// PendingToolCalls returns the calls of the latest assistant message that
// have no tool result yet, in emitted order.
func (mh *Messages) PendingToolCalls() []ToolCall {
	i := len(mh.Messages) - 1
	answered := make(map[string]bool)
	for ; i >= 0 && mh.Messages[i].Role == RoleTool; i-- {
		answered[mh.Messages[i].ToolCallID] = true
	}
	if i < 0 || mh.Messages[i].Role != RoleAssistant {
		return nil
	}

	var pending []ToolCall
	for _, tc := range mh.Messages[i].ToolCalls {
		if !answered[tc.ID] {
			pending = append(pending, tc)
		}
	}
	return pending
}

// Append copies all messages from other into mh.
func (mh *Messages) Append(other Messages) {
	mh.Messages = append(mh.Messages, other.Messages...)
}

// Clone returns a copy of mh with an independent backing slice.
func (mh *Messages) Clone() Messages {
	cloned := make([]Message, len(mh.Messages))
	copy(cloned, mh.Messages)
	return Messages{Messages: cloned}
}
