package providers

import "github.com/deskpilot/deskpilot/internal/schema"

// Params are the raw values needed to construct a schema.ModelGateway.
// Extracted from config.Config by the caller to avoid an import cycle.
type Params struct {
	APIKey       string
	APIBase      string
	ExtraHeaders map[string]string
	DefaultModel string
	ProviderName string // registry name, e.g. "openrouter", "ollama"
}

// New creates the model gateway for the given params. Every supported
// provider speaks the OpenAI chat-completions dialect.
func New(p Params) schema.ModelGateway {
	return NewOpenAIGateway(p.APIKey, p.APIBase, p.DefaultModel, p.ProviderName, p.ExtraHeaders)
}
