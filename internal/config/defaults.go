package config

import (
	"os"
	"path/filepath"

	"github.com/ziadkadry99/ai-assistant/internal/backend"
	"github.com/ziadkadry99/ai-assistant/internal/source"
)

// DefaultPath is where init writes the config file.
const DefaultPath = ".aiassist.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Mode:     string(source.ModeWeb),
		LogLevel: "warn",
		Backend: BackendConfig{
			BaseURL:        backend.DefaultBaseURL,
			TimeoutSeconds: 120,
		},
		Server: ServerConfig{
			Port: 3000,
		},
		History: HistoryConfig{
			Enabled: false,
			Path:    defaultHistoryPath(),
		},
	}
}

// defaultHistoryPath puts the journal under the user's data directory,
// falling back to the working directory.
func defaultHistoryPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "aiassist", "history.db")
	}
	return filepath.Join(".aiassist", "history.db")
}
