// Package config defines the deskpilot configuration schema and loads it
// from ~/.deskpilot/config.json (or .yaml) with environment overrides.
//
// Keys are camelCase in every file format.
package config

import (
	"github.com/deskpilot/deskpilot/internal/config/agent"
	"github.com/deskpilot/deskpilot/internal/config/gateway"
	"github.com/deskpilot/deskpilot/internal/config/provider"
	"github.com/deskpilot/deskpilot/internal/config/tool"
)

// LogConfig controls the process-wide slog handler.
type LogConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // text or json
}

// Config is the root configuration object.
type Config struct {
	Agents    agent.AgentsConfig       `json:"agents"`
	Providers provider.ProvidersConfig `json:"providers"`
	Gateway   gateway.GatewayConfig    `json:"gateway"`
	Tools     tool.ToolsConfig         `json:"tools"`
	Log       LogConfig                `json:"log"`
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() Config {
	return Config{
		Agents:    agent.DefaultAgentsConfig(),
		Providers: provider.DefaultProvidersConfig(),
		Gateway:   gateway.DefaultGatewayConfig(),
		Tools:     tool.DefaultToolConfigs(),
		Log:       LogConfig{Level: "info", Format: "text"},
	}
}

// ProviderByName returns the ProviderConfig for a registry name, or nil.
func (c *Config) ProviderByName(name string) *provider.ProviderConfig {
	return c.Providers.ByName(name)
}
