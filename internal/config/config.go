// ABOUTME: Configuration loading for the asistente-neae client
// ABOUTME: Merges defaults, config.toml, .env file, and environment variables

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment variable names recognized by the client.
const (
	EnvAPIURL  = "ASISTENTE_NEAE_API_URL"
	EnvMaxLen  = "ASISTENTE_NEAE_MAX_MESSAGE_LENGTH"
	EnvTimeout = "ASISTENTE_NEAE_TIMEOUT_SECONDS"
)

// Config holds client settings.
type Config struct {
	APIURL           string `toml:"api_url"`
	MaxMessageLength int    `toml:"max_message_length"`
	TimeoutSeconds   int    `toml:"timeout_seconds"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:           "http://127.0.0.1:8000",
		MaxMessageLength: 1000,
		TimeoutSeconds:   30,
	}
}

// Timeout returns the request timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DefaultConfigDir returns the config directory following the XDG spec.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "asistente-neae")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "asistente-neae")
}

// Load builds the effective configuration. Precedence, lowest to highest:
// defaults, config.toml in configDir, .env in the working directory,
// environment variables. A missing config.toml or .env is not an error.
func Load(configDir string) (Config, error) {
	cfg := Default()

	if configDir != "" {
		path := filepath.Join(configDir, "config.toml")
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
			}
		}
	}

	// .env only populates variables that are not already set
	_ = godotenv.Load()

	if url := os.Getenv(EnvAPIURL); url != "" {
		cfg.APIURL = url
	}
	if raw := os.Getenv(EnvMaxLen); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.MaxMessageLength = n
		}
	}
	if raw := os.Getenv(EnvTimeout); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.TimeoutSeconds = n
		}
	}

	if cfg.MaxMessageLength <= 0 {
		cfg.MaxMessageLength = Default().MaxMessageLength
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = Default().TimeoutSeconds
	}

	return cfg, nil
}
