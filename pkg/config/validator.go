package config

import (
	"errors"
	"fmt"
	"net/url"
)

func (c *Config) Validate() error {
	var errs []error

	// App validation
	if c.App.Name == "" {
		errs = append(errs, errors.New("app.name is required"))
	}

	validModes := map[string]bool{"development": true, "production": true, "test": true}
	if !validModes[c.App.Mode] {
		errs = append(errs, fmt.Errorf("app.mode must be one of: development, production, test"))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.App.LogLevel] {
		errs = append(errs, fmt.Errorf("app.log_level must be one of: debug, info, warn, error"))
	}

	// Backend validation
	if c.Backend.BaseURL == "" {
		errs = append(errs, errors.New("backend.base_url is required"))
	} else if u, err := url.Parse(c.Backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, errors.New("backend.base_url must be an absolute URL"))
	}
	if c.Backend.Timeout <= 0 {
		errs = append(errs, errors.New("backend.timeout must be positive"))
	}

	// Loader validation
	if len(c.Loader.Modules) == 0 {
		errs = append(errs, errors.New("loader.modules must not be empty"))
	}

	// Form validation
	if len(c.Form.Models) == 0 {
		errs = append(errs, errors.New("form.models must not be empty"))
	} else if !contains(c.Form.Models, c.Form.DefaultModel) {
		errs = append(errs, errors.New("form.default_model must be one of form.models"))
	}

	// Manual validation
	if c.Manual.FeatureCount <= 0 {
		errs = append(errs, errors.New("manual.feature_count must be positive"))
	}
	if len(c.Manual.FeatureLabels) > c.Manual.FeatureCount {
		errs = append(errs, errors.New("manual.feature_labels must not exceed manual.feature_count"))
	}
	if c.Manual.DefaultModel != "profit" && c.Manual.DefaultModel != "quantity" {
		errs = append(errs, errors.New("manual.default_model must be one of: profit, quantity"))
	}

	// Mock API validation
	if c.MockAPI.Port <= 0 || c.MockAPI.Port > 65535 {
		errs = append(errs, errors.New("mock_api.port must be between 1 and 65535"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
