package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigDir_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GTODO_CONFIG_DIR", dir)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir: %v", err)
	}
	if got != dir {
		t.Fatalf("expected %q, got %q", dir, got)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GTODO_BACKEND", "")

	cfg, err := LoadConfig(NewViper(dir), dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Backend != BackendDiskv || cfg.Key != DefaultKey {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
	if cfg.DataDir != filepath.Join(dir, "data") {
		t.Fatalf("unexpected data dir %q", cfg.DataDir)
	}
	if cfg.ConfigFile != "" {
		t.Fatalf("expected no config file, got %q", cfg.ConfigFile)
	}
	if cfg.DefaultLogFile() != filepath.Join(dir, "gtodo.log") {
		t.Fatalf("unexpected log file %q", cfg.DefaultLogFile())
	}
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := "backend: sqlite\nkey: work-todos\nlog_level: debug\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(NewViper(dir), dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Backend != BackendSQLite || cfg.Key != "work-todos" || cfg.LogLevel != "debug" {
		t.Fatalf("expected file values, got %#v", cfg)
	}
	if cfg.SQLitePath() != filepath.Join(dir, "data", "gtodo.sqlite") {
		t.Fatalf("unexpected sqlite path %q", cfg.SQLitePath())
	}

	t.Setenv("GTODO_BACKEND", "memory")
	cfg, err = LoadConfig(NewViper(dir), dir)
	if err != nil {
		t.Fatalf("LoadConfig (env): %v", err)
	}
	if cfg.Backend != BackendMemory {
		t.Fatalf("expected env to override file, got %q", cfg.Backend)
	}
}

func TestLoadConfig_InvalidFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(NewViper(dir), dir); err == nil {
		t.Fatalf("expected parse error")
	}
}
