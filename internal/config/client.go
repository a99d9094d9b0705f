package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ClientConfig configures the qrsona CLI.
type ClientConfig struct {
	// APIURL is the REST backend root.
	APIURL string `yaml:"api_url"`
	// AppURL is the front-end base URL encoded in QR links.
	AppURL string `yaml:"app_url"`
	// SessionPath is where the signed-in session is kept.
	SessionPath string `yaml:"session_path"`
	// Lang is "ja" or "en".
	Lang string `yaml:"lang"`
	// RateLimit caps requests per second; 0 disables throttling.
	RateLimit float64       `yaml:"rate_limit"`
	Burst     int           `yaml:"burst"`
	Timeout   time.Duration `yaml:"timeout"`
	// ConcurrentProbes resolves both directions at once.
	ConcurrentProbes bool `yaml:"concurrent_probes"`
}

// Dir returns ~/.qrsona, falling back to ./.qrsona without a home.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".qrsona"
	}
	return filepath.Join(home, ".qrsona")
}

// DefaultClientPath is the YAML config location.
func DefaultClientPath() string { return filepath.Join(Dir(), "config.yaml") }

// DefaultClient returns the built-in client settings.
func DefaultClient() ClientConfig {
	return ClientConfig{
		APIURL:      "http://localhost:8080",
		AppURL:      "http://localhost:3000",
		SessionPath: filepath.Join(Dir(), "session.json"),
		Lang:        "ja",
		Burst:       1,
		Timeout:     15 * time.Second,
	}
}

// LoadClient builds the client config: defaults, then the YAML file at
// path (a missing file is fine), then QRSONA_* environment variables.
// Command-line flags are applied on top by the caller.
func LoadClient(path string) (ClientConfig, error) {
	cfg := DefaultClient()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.APIURL = getEnv("QRSONA_API_URL", cfg.APIURL)
	cfg.AppURL = getEnv("QRSONA_APP_URL", cfg.AppURL)
	cfg.SessionPath = getEnv("QRSONA_SESSION", cfg.SessionPath)
	cfg.Lang = getEnv("QRSONA_LANG", cfg.Lang)
	cfg.RateLimit = getEnvFloat("QRSONA_RATE_LIMIT", cfg.RateLimit)
	cfg.Burst = getEnvInt("QRSONA_BURST", cfg.Burst)
	cfg.Timeout = getEnvDuration("QRSONA_TIMEOUT", cfg.Timeout)
	cfg.ConcurrentProbes = getEnvBool("QRSONA_CONCURRENT_PROBES", cfg.ConcurrentProbes)
	return cfg, nil
}
