// ABOUTME: Tests for configuration loading
// ABOUTME: Covers defaults, config.toml and environment precedence

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvMaxLen, "")
	t.Setenv(EnvTimeout, "")
	os.Unsetenv(EnvAPIURL)
	os.Unsetenv(EnvMaxLen)
	os.Unsetenv(EnvTimeout)
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "http://127.0.0.1:8000" {
		t.Errorf("api url = %q", cfg.APIURL)
	}
	if cfg.MaxMessageLength != 1000 {
		t.Errorf("max length = %d, want 1000", cfg.MaxMessageLength)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", cfg.Timeout())
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	content := "api_url = \"https://neae.example.com\"\nmax_message_length = 500\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "https://neae.example.com" {
		t.Errorf("api url = %q", cfg.APIURL)
	}
	if cfg.MaxMessageLength != 500 {
		t.Errorf("max length = %d, want 500", cfg.MaxMessageLength)
	}
	// Unset keys keep their defaults
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("timeout = %d, want default 30", cfg.TimeoutSeconds)
	}
}

func TestEnvironmentOverridesConfigFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	content := "api_url = \"https://file.example.com\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAPIURL, "https://env.example.com")
	t.Setenv(EnvMaxLen, "200")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "https://env.example.com" {
		t.Errorf("api url = %q, want the environment value", cfg.APIURL)
	}
	if cfg.MaxMessageLength != 200 {
		t.Errorf("max length = %d, want 200", cfg.MaxMessageLength)
	}
}

func TestInvalidEnvValuesIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvMaxLen, "not-a-number")
	t.Setenv(EnvTimeout, "-5")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxMessageLength != 1000 {
		t.Errorf("max length = %d, want default", cfg.MaxMessageLength)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("timeout = %d, want default", cfg.TimeoutSeconds)
	}
}

func TestInvalidConfigFileIsAnError(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("api_url = ["), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("expected an error for a malformed config file")
	}
}
