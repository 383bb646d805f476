package config

import "testing"

func TestMatchProvider(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*Config)
		model    string
		wantName string
		wantBase string
	}{
		{
			name:     "keyword",
			setup:    func(c *Config) { c.Providers.OpenAI.APIKey = "sk" },
			model:    "gpt-4o",
			wantName: "openai",
			wantBase: "https://api.openai.com/v1",
		},
		{
			name: "explicit prefix beats keyword",
			setup: func(c *Config) {
				c.Providers.OpenAI.APIKey = "sk"
				c.Providers.OpenRouter.APIKey = "sk-or-1"
			},
			model:    "openrouter/openai/gpt-4o",
			wantName: "openrouter",
			wantBase: "https://openrouter.ai/api/v1",
		},
		{
			name:     "fallback to first configured",
			setup:    func(c *Config) { c.Providers.DeepSeek.APIKey = "k" },
			model:    "some-unknown-model",
			wantName: "deepseek",
			wantBase: "https://api.deepseek.com/v1",
		},
		{
			name:     "local provider needs only a base",
			setup:    func(c *Config) { c.Providers.Ollama.APIBase = "http://gpu:11434/v1" },
			model:    "ollama/llama3",
			wantName: "ollama",
			wantBase: "http://gpu:11434/v1",
		},
		{
			name:  "nothing configured",
			setup: func(*Config) {},
			model: "gpt-4o",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.setup(&cfg)
			if got := cfg.GetProviderName(tt.model); got != tt.wantName {
				t.Errorf("provider: got %q, want %q", got, tt.wantName)
			}
			if got := cfg.GetAPIBase(tt.model); got != tt.wantBase {
				t.Errorf("api base: got %q, want %q", got, tt.wantBase)
			}
		})
	}
}
