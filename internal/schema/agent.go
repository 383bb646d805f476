package schema

// DefaultMaxToolRounds is how many tool-triggered regenerations a turn may
// run after its first generation.
const DefaultMaxToolRounds = 5

type AgentSettings struct {
	Model         string
	MaxToolRounds int
	Temperature   float64
	MaxTokens     int
}

func NewAgentSettings(model string, maxToolRounds int, temperature float64, maxTokens int) AgentSettings {
	if maxToolRounds < 0 {
		maxToolRounds = DefaultMaxToolRounds
	}
	return AgentSettings{
		Model:         model,
		MaxToolRounds: maxToolRounds,
		Temperature:   temperature,
		MaxTokens:     maxTokens,
	}
}

func (s AgentSettings) ChatOptions() ChatOptions {
	return NewChatOptions(s.Model, s.MaxTokens, s.Temperature)
}
