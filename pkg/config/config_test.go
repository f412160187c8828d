package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuildDefaults(t *testing.T) {
	cfg, err := Build("", nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if cfg.DataFile == "" {
		t.Error("expected a default data file path")
	}
	if cfg.Model != "gemini-2.5-flash" {
		t.Errorf("model = %q", cfg.Model)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Addr)
	}
}

func TestBuildFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "data-file: /tmp/ipo.yaml\nmodel: gemini-2.0-flash\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Build(path, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if cfg.DataFile != "/tmp/ipo.yaml" {
		t.Errorf("data file = %q", cfg.DataFile)
	}
	if cfg.Model != "gemini-2.0-flash" {
		t.Errorf("model = %q", cfg.Model)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("addr should fall back to default, got %q", cfg.Addr)
	}

	if _, err := Build(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}
