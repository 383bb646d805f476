package gateway

// GatewayConfig holds websocket gateway settings.
type GatewayConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
	// AllowedOrigins lists browser origins allowed to open /ws. Empty allows
	// same-host requests only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{Host: "127.0.0.1", Port: 18790}
}
