package schema

import "context"

// ChatOptions configures a single model request.
type ChatOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

func NewChatOptions(model string, maxTokens int, temperature float64) ChatOptions {
	return ChatOptions{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
}

// ModelGateway streams one assistant turn.
//
// Generate returns a finite channel of fragments that is closed when the
// turn ends. Failures before the first byte are returned directly; later
// failures arrive as a final fragment carrying Err. Cancelling ctx stops
// the stream and releases the connection.
type ModelGateway interface {
	Generate(ctx context.Context, history Messages, tools []ToolDescriptor, opts ChatOptions) (<-chan Fragment, error)
	DefaultModel() string
}
