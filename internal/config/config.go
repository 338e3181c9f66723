// Package config resolves client settings: environment first, an optional
// .env file underneath, flag overrides on top (applied by the CLI).
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// BaseURL is the record API root, e.g. https://api.example.com.
	BaseURL string
	APIKey  string

	// Timeout bounds every gateway call (and therefore a drag commit).
	Timeout time.Duration

	// LogPath enables file logging when set. The TUI owns stdout, so logs
	// never go there.
	LogPath string

	// StateDir holds local client state (UI state, action event log).
	StateDir string
}

const defaultTimeout = 10 * time.Second

func Load() Config {
	// Best effort: a missing .env is the normal case.
	_ = godotenv.Load()

	cfg := Config{
		BaseURL:  envOr("FLOWCRM_BASE_URL", "http://localhost:4000"),
		APIKey:   os.Getenv("FLOWCRM_API_KEY"),
		Timeout:  defaultTimeout,
		LogPath:  os.Getenv("FLOWCRM_LOG"),
		StateDir: os.Getenv("FLOWCRM_STATE_DIR"),
	}
	if v := strings.TrimSpace(os.Getenv("FLOWCRM_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if cfg.StateDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.StateDir = filepath.Join(home, ".flowcrm")
		}
	}
	return cfg
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
