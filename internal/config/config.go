package config

import (
	"fmt"
	"os"

	yaml "github.com/goccy/go-yaml"
)

// ServerConfig holds configuration for the taskflow server.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`            // Listen address (default ":8080")
	LogLevel       string   `yaml:"log_level"`       // Log level: debug, info, warn, error
	LogFormat      string   `yaml:"log_format"`      // Log format: text, json
	DBPath         string   `yaml:"db_path"`         // SQLite database path (default ~/.taskflow/taskflow.db, ":memory:" for testing)
	AllowedOrigins []string `yaml:"allowed_origins"` // CORS origins
	MaxDPTasks     int      `yaml:"dp_max_tasks"`    // Upper bound for the dynamic programming strategy
}

// DefaultServerConfig returns sensible defaults. DBPath is left empty; the
// server command resolves it under the user's home directory.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:           ":8080",
		LogLevel:       "info",
		LogFormat:      "text",
		AllowedOrigins: []string{"http://localhost:3000"},
		MaxDPTasks:     16,
	}
}

// Load reads a YAML file over the defaults. An empty path yields the defaults.
func Load(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	// sanity clamps
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.MaxDPTasks <= 0 {
		cfg.MaxDPTasks = 16
	}
	return cfg, nil
}
