package gateway

// Client → server event types.
const (
	EventMessage = "message"
	EventCancel  = "cancel"
)

// Server → client event types.
const (
	EventSession    = "session"
	EventFragment   = "fragment"
	EventToolCall   = "tool_call"
	EventToolResult = "tool_result"
	EventDone       = "done"
	EventError      = "error"
)

// Error kinds the gateway adds on top of schema.ErrorKind.
const (
	KindBusy       = "busy"
	KindBadRequest = "bad_request"
)

// ClientEvent is one JSON frame sent by a client.
type ClientEvent struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}

// ServerEvent is one JSON frame sent to a client.
type ServerEvent struct {
	Type    string         `json:"type"`
	Session string         `json:"session,omitempty"`
	Content string         `json:"content,omitempty"`
	Tool    string         `json:"tool,omitempty"`
	Args    map[string]any `json:"args,omitempty"`
	Kind    string         `json:"kind,omitempty"`
	Message string         `json:"message,omitempty"`
}
