package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("missing config should not error: %v", err)
	}
	if cfg.Practice.MaxLines != nil || cfg.Practice.Languages != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[practice]\nlanguages = [\"python\", \"java\"]\nmax-lines = 20\nmax-cols = 100\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Practice.MaxLines == nil || *cfg.Practice.MaxLines != 20 {
		t.Fatalf("unexpected max-lines: %+v", cfg.Practice.MaxLines)
	}
	if cfg.Practice.MaxCols == nil || *cfg.Practice.MaxCols != 100 {
		t.Fatalf("unexpected max-cols: %+v", cfg.Practice.MaxCols)
	}
	if cfg.Practice.Languages == nil || !reflect.DeepEqual(*cfg.Practice.Languages, []string{"python", "java"}) {
		t.Fatalf("unexpected languages: %+v", cfg.Practice.Languages)
	}
}
