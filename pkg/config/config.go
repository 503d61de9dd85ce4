package config

import (
	"time"
)

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Backend BackendConfig `mapstructure:"backend"`
	Loader  LoaderConfig  `mapstructure:"loader"`
	Form    FormConfig    `mapstructure:"form"`
	Manual  ManualConfig  `mapstructure:"manual"`
	MockAPI MockAPIConfig `mapstructure:"mock_api"`
	Events  EventsConfig  `mapstructure:"events"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	Mode     string `mapstructure:"mode"`
	LogLevel string `mapstructure:"log_level"`
}

// BackendConfig points at the forecasting API whose endpoints are consumed.
type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LoaderConfig struct {
	// Modules lists behavior modules in load order.
	Modules []string `mapstructure:"modules"`
}

type FormConfig struct {
	Models       []string `mapstructure:"models"`
	DefaultModel string   `mapstructure:"default_model"`
}

type ManualConfig struct {
	FeatureCount  int      `mapstructure:"feature_count"`
	FeatureLabels []string `mapstructure:"feature_labels"`
	DefaultModel  string   `mapstructure:"default_model"`
}

type MockAPIConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type EventsConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
}
