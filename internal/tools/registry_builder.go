package tools

import (
	"fmt"

	"github.com/deskpilot/deskpilot/internal/schema"
)

// RegistryBuilder accumulates tools during the construction phase.
// Call Build() to produce an immutable Registry ready for use.
type RegistryBuilder struct {
	tools   map[string]schema.Tool
	aliases map[string]string
	order   []string
}

// NewRegistryBuilder returns a fresh RegistryBuilder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{
		tools:   make(map[string]schema.Tool),
		aliases: make(map[string]string),
	}
}

// WithTool adds a tool and returns the builder, enabling chaining.
// A later tool with the same normalised name replaces the earlier one.
func (b *RegistryBuilder) WithTool(tool schema.Tool) *RegistryBuilder {
	key := normalizeName(tool.Name())
	if _, exists := b.tools[key]; !exists {
		b.order = append(b.order, key)
	}
	b.tools[key] = tool

	return b
}

// WithAlias makes alias resolve to the tool registered as target.
func (b *RegistryBuilder) WithAlias(alias string, target ToolName) *RegistryBuilder {
	b.aliases[normalizeName(alias)] = normalizeName(string(target))

	return b
}

// Build produces an immutable Registry from the accumulated tools.
// Aliases pointing at unknown tools or shadowing real tools are rejected.
func (b *RegistryBuilder) Build() (*Registry, error) {
	tools := make(map[string]schema.Tool, len(b.tools))
	for k, v := range b.tools {
		tools[k] = v
	}

	aliases := make(map[string]string, len(b.aliases))
	for alias, target := range b.aliases {
		if _, ok := tools[target]; !ok {
			return nil, fmt.Errorf("alias %q points to unknown tool %q", alias, target)
		}
		if _, ok := tools[alias]; ok {
			return nil, fmt.Errorf("alias %q shadows a registered tool", alias)
		}
		aliases[alias] = target
	}

	order := make([]string, len(b.order))
	copy(order, b.order)
	return &Registry{tools: tools, aliases: aliases, order: order}, nil
}
