package tool

// ToolsConfig groups all tool-level settings.
type ToolsConfig struct {
	Asana AsanaConfig `json:"asana"`
	Drive DriveConfig `json:"drive"`
}

func DefaultToolConfigs() ToolsConfig {
	return ToolsConfig{
		Asana: DefaultAsanaConfig(),
		Drive: DefaultDriveConfig(),
	}
}
