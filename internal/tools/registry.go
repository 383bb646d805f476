package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/deskpilot/deskpilot/internal/schema"
)

// ToolName is the canonical name of a built-in tool.
type ToolName string

const (
	ToolCreateAsanaTask ToolName = "create_asana_task"
	ToolDocumentLoader  ToolName = "google_document_loader"
	ToolDriveLister     ToolName = "google_drive_lister"
)

// Registry is the fixed set of tools the model may call. It is immutable
// once built and safe for concurrent use.
type Registry struct {
	tools   map[string]schema.Tool
	aliases map[string]string
	order   []string
}

// normalizeName maps a requested tool name onto registry keys.
// Models sometimes change the case of tool names.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Lookup resolves name case-insensitively, following aliases.
func (r *Registry) Lookup(name string) (schema.Tool, bool) {
	key := normalizeName(name)
	if target, ok := r.aliases[key]; ok {
		key = target
	}
	t, ok := r.tools[key]
	return t, ok
}

// GetTool returns the tool registered under name, or nil.
func (r *Registry) GetTool(name ToolName) schema.Tool {
	t, _ := r.Lookup(string(name))
	return t
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Aliases returns a copy of the alias → tool name table.
func (r *Registry) Aliases() map[string]string {
	out := make(map[string]string, len(r.aliases))
	for k, v := range r.aliases {
		out[k] = v
	}
	return out
}

// Descriptors returns the advertised tools in registration order.
// Aliases are resolvable but never advertised.
func (r *Registry) Descriptors() []schema.ToolDescriptor {
	out := make([]schema.ToolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, schema.DescriptorOf(r.tools[name]))
	}
	return out
}

// Invoke runs t with the arguments of call and serialises the result to
// text. Any error from the tool comes back as a *schema.ToolExecutionError.
func (r *Registry) Invoke(ctx context.Context, t schema.Tool, call schema.ToolCall) (string, error) {
	args := call.Arguments
	if args == nil {
		args = map[string]any{}
	}

	result, err := t.Execute(ctx, args)
	if err != nil {
		return "", &schema.ToolExecutionError{Tool: t.Name(), Err: err}
	}

	text, err := SerializeResult(result)
	if err != nil {
		return "", &schema.ToolExecutionError{Tool: t.Name(), Err: err}
	}
	return text, nil
}

// SerializeResult renders a tool result as text: strings pass through,
// everything else becomes indented JSON.
func SerializeResult(result any) (string, error) {
	switch v := result.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case fmt.Stringer:
		return v.String(), nil
	}
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize result: %w", err)
	}
	return string(b), nil
}
