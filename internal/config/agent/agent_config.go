package agent

import "github.com/deskpilot/deskpilot/internal/schema"

type AgentDefaults struct {
	Model       string  `json:"model"`
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
	MaxToolIter int     `json:"maxToolIterations"`
	// Instructions are appended to the system prompt.
	Instructions string `json:"instructions"`
	// TurnTimeout bounds a single-message CLI turn, in seconds. 0 disables it.
	TurnTimeout int `json:"turnTimeout"`
}

type AgentsConfig struct {
	Defaults AgentDefaults `json:"defaults"`
}

func defaultAgentDefaults() AgentDefaults {
	return AgentDefaults{
		Model:       "gpt-4o",
		MaxTokens:   4096,
		Temperature: 0.7,
		MaxToolIter: schema.DefaultMaxToolRounds,
		TurnTimeout: 300,
	}
}

func DefaultAgentsConfig() AgentsConfig {
	return AgentsConfig{Defaults: defaultAgentDefaults()}
}

// Settings converts the defaults into the loop's runtime settings.
func (d AgentDefaults) Settings() schema.AgentSettings {
	return schema.NewAgentSettings(d.Model, d.MaxToolIter, d.Temperature, d.MaxTokens)
}
