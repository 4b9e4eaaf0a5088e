package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/rbetancur/amg-desk-ai/internal/shared/config"
	apperrors "github.com/rbetancur/amg-desk-ai/internal/shared/errors"
)

type Config struct {
	Backend  sharedConfig.BackendConfig  `mapstructure:"backend"`
	Auth     sharedConfig.AuthConfig     `mapstructure:"auth"`
	Realtime sharedConfig.RealtimeConfig `mapstructure:"realtime"`
	Logger   sharedConfig.LoggerConfig   `mapstructure:"logger"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from an optional config file and environment
// variables. A missing config file is not an error; missing required
// values are reported by Validate.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("$HOME/.config/deskai")

	viper.SetEnvPrefix("DESKAI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// Validate checks the required values. Each missing value is named so
// the operator knows exactly which variable to set. Callers must treat
// a validation failure as fatal and never proceed unauthenticated.
func (c *Config) Validate() error {
	var missing []string
	if c.Backend.BaseURL == "" {
		missing = append(missing, "DESKAI_BACKEND_BASE_URL (backend.base_url)")
	}
	if c.Auth.URL == "" {
		missing = append(missing, "DESKAI_AUTH_URL (auth.url)")
	}
	if c.Auth.AnonKey == "" {
		missing = append(missing, "DESKAI_AUTH_ANON_KEY (auth.anon_key)")
	}
	if len(missing) > 0 {
		return apperrors.NewConfigurationError(
			"Incomplete configuration: missing "+strings.Join(missing, ", ")+".",
		)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Backend defaults
	viper.SetDefault("backend.base_url", "")
	viper.SetDefault("backend.timeout_seconds", 30)

	// Auth defaults (must be configured)
	viper.SetDefault("auth.url", "")
	viper.SetDefault("auth.anon_key", "")

	// Realtime defaults
	viper.SetDefault("realtime.table", "HLP_PETICIONES")
	viper.SetDefault("realtime.owner_column", "USUSOLICITA")
	viper.SetDefault("realtime.heartbeat_seconds", 25)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stderr")
}
