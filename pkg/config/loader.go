package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("forecast")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/sales-forecaster")
	}

	// Environment variable settings
	v.SetEnvPrefix("FORECAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "sales-forecaster")
	v.SetDefault("app.mode", "development")
	v.SetDefault("app.log_level", "info")

	// Backend defaults
	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.timeout", "10s")

	// Loader defaults
	v.SetDefault("loader.modules", []string{"upload", "metrics", "dashboard"})

	// Form defaults
	v.SetDefault("form.models", []string{"profit", "quantity"})
	v.SetDefault("form.default_model", "profit")

	// Manual prediction defaults
	v.SetDefault("manual.feature_count", 8)
	v.SetDefault("manual.feature_labels", []string{"f0", "f1", "f2", "f3", "f4", "f5", "f6", "f7"})
	v.SetDefault("manual.default_model", "profit")

	// Mock API defaults
	v.SetDefault("mock_api.port", 8000)
	v.SetDefault("mock_api.read_timeout", "15s")
	v.SetDefault("mock_api.write_timeout", "15s")

	v.SetDefault("events.buffer_size", 100)
}
