package tool

import "github.com/deskpilot/deskpilot/internal/asana"

// AsanaConfig configures the task-creation tool.
type AsanaConfig struct {
	AccessToken string `json:"accessToken"`
	ProjectID   string `json:"projectId"`
	BaseURL     string `json:"baseUrl"`
}

func DefaultAsanaConfig() AsanaConfig {
	return AsanaConfig{BaseURL: asana.DefaultBaseURL}
}
