package schema

import (
	"context"
	"encoding/json"
)

// Tool is the interface every model-callable capability satisfies.
//
// Execute returns either a string or any value that can be marshalled to
// JSON. A returned error means the tool could not run at all; problems the
// model should see and react to belong in the result instead.
type Tool interface {
	Name() string
	Description() string
	// Parameters returns the JSON Schema (as raw JSON bytes) for this tool's parameters.
	Parameters() json.RawMessage
	Execute(ctx context.Context, args map[string]any) (any, error)
}

// ToolDescriptor is the advertised shape of a tool.
type ToolDescriptor struct {
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description" yaml:"description"`
	Parameters  json.RawMessage `json:"parameters" yaml:"-"`
}

// DescriptorOf builds the descriptor of t.
func DescriptorOf(t Tool) ToolDescriptor {
	return ToolDescriptor{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters:  t.Parameters(),
	}
}

// ToWireMap returns the descriptor in OpenAI function-calling format.
func (d ToolDescriptor) ToWireMap() map[string]any {
	var params any
	if err := json.Unmarshal(d.Parameters, &params); err != nil || params == nil {
		params = map[string]any{"type": "object", "properties": map[string]any{}}
	}
	return map[string]any{
		"type": "function",
		"function": map[string]any{
			"name":        d.Name,
			"description": d.Description,
			"parameters":  params,
		},
	}
}
