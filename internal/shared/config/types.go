package config

import "strings"

// BackendConfig describes the help-desk REST API the client talks to.
type BackendConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Endpoint joins a path onto the backend base URL.
func (b *BackendConfig) Endpoint(path string) string {
	base := strings.TrimSuffix(b.BaseURL, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// AuthConfig describes the external auth/database service.
// AnonKey is the service's public API key, sent as the apikey header.
type AuthConfig struct {
	URL     string `mapstructure:"url"`
	AnonKey string `mapstructure:"anon_key"`
}

// RealtimeConfig describes the change-feed subscription.
type RealtimeConfig struct {
	Table            string `mapstructure:"table"`
	OwnerColumn      string `mapstructure:"owner_column"`
	HeartbeatSeconds int    `mapstructure:"heartbeat_seconds"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}
