package config

// Config is the top-level aiassist configuration, corresponding to .aiassist.yml.
type Config struct {
	Mode     string        `yaml:"mode" koanf:"mode"`
	LogLevel string        `yaml:"log_level" koanf:"log_level"`
	Backend  BackendConfig `yaml:"backend" koanf:"backend"`
	Server   ServerConfig  `yaml:"server" koanf:"server"`
	History  HistoryConfig `yaml:"history" koanf:"history"`
}

// BackendConfig locates the summarization service.
type BackendConfig struct {
	BaseURL string `yaml:"base_url" koanf:"base_url"`
	// TimeoutSeconds bounds each request; 0 means no bound.
	TimeoutSeconds int `yaml:"timeout_seconds" koanf:"timeout_seconds"`
}

// ServerConfig holds settings for the local web UI.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// HistoryConfig controls the optional exchange journal.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" koanf:"enabled"`
	Path    string `yaml:"path" koanf:"path"`
}
