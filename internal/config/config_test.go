package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taskflow.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultServerConfig()) {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
addr: ":9090"
log_level: debug
db_path: /tmp/tasks.db
allowed_origins:
  - https://app.example.com
  - https://admin.example.com
dp_max_tasks: 12
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := ServerConfig{
		Addr:           ":9090",
		LogLevel:       "debug",
		LogFormat:      "text",
		DBPath:         "/tmp/tasks.db",
		AllowedOrigins: []string{"https://app.example.com", "https://admin.example.com"},
		MaxDPTasks:     12,
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestLoadClampsInvalidValues(t *testing.T) {
	path := writeConfig(t, "addr: \"\"\ndp_max_tasks: -3\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.MaxDPTasks != 16 {
		t.Errorf("cfg = %+v, want clamped addr and dp_max_tasks", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file: expected error")
	}
	if _, err := Load(writeConfig(t, "addr: [unterminated\n")); err == nil {
		t.Error("malformed file: expected error")
	}
}
