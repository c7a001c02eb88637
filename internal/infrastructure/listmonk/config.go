// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package listmonk

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the configuration for the listmonk API client.
type Config struct {
	// BaseURL is the listmonk instance base URL, without the /api suffix.
	BaseURL string `yaml:"base_url"`

	// Username is the API user the token belongs to.
	Username string `yaml:"username"`

	// APIToken is the listmonk API token used for authentication.
	APIToken string `yaml:"api_token"`

	// Timeout is the per-request HTTP deadline. Batch operations issue
	// many independently-timed calls and have no aggregate deadline.
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:9000",
		Timeout: 30 * time.Second,
	}
}

// NewConfigFromEnv creates a Config from environment variables.
func NewConfigFromEnv() Config {
	config := DefaultConfig()

	if baseURL := os.Getenv("LISTMONK_URL"); baseURL != "" {
		config.BaseURL = baseURL
	}

	if username := os.Getenv("LISTMONK_USERNAME"); username != "" {
		config.Username = username
	}

	if token := os.Getenv("LISTMONK_API_TOKEN"); token != "" {
		config.APIToken = token
	}

	if timeoutStr := os.Getenv("LISTMONK_TIMEOUT"); timeoutStr != "" {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil {
			config.Timeout = timeout
		}
	}

	return config
}

// LoadConfig reads a YAML config file, filling unset fields with
// defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.Timeout == 0 {
		config.Timeout = DefaultConfig().Timeout
	}

	return config, nil
}
