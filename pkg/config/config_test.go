package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sdejongh/mediakit/pkg/models"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}

	if cfg.Compare.Method != models.DigestQuick {
		t.Errorf("Compare.Method = %s, want quick", cfg.Compare.Method)
	}
	if cfg.Sort.Action != models.SortMove {
		t.Errorf("Sort.Action = %s, want move", cfg.Sort.Action)
	}
	if cfg.Sort.OnCollision != models.CollisionRename {
		t.Errorf("Sort.OnCollision = %s, want rename", cfg.Sort.OnCollision)
	}
	if len(cfg.Sort.Categories) == 0 {
		t.Error("default config should carry the built-in categories")
	}
	if cfg.Performance.MaxWorkers != 5 {
		t.Errorf("MaxWorkers = %d, want 5", cfg.Performance.MaxWorkers)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid default", func(c *Config) {}, false},
		{"bad compare method", func(c *Config) { c.Compare.Method = "crc32" }, true},
		{"bad sort action", func(c *Config) { c.Sort.Action = "shuffle" }, true},
		{"bad collision policy", func(c *Config) { c.Sort.OnCollision = "explode" }, true},
		{"bad category extension", func(c *Config) { c.Sort.Categories = map[string][]string{"RAW": {"cr2"}} }, true},
		{"zero workers", func(c *Config) { c.Performance.MaxWorkers = 0 }, true},
		{"tiny buffer", func(c *Config) { c.Performance.BufferSize = 100 }, true},
		{"bad output format", func(c *Config) { c.Output.Format = "xml" }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "csv" }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := Default()
	cfg.Compare.Method = models.DigestSHA256
	cfg.Sort.Categories["Drone"] = []string{".insv"}
	cfg.Performance.MaxWorkers = 8

	if err := SaveToFile(cfg, path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if loaded.Compare.Method != models.DigestSHA256 {
		t.Errorf("Method = %s, want sha256", loaded.Compare.Method)
	}
	if loaded.Performance.MaxWorkers != 8 {
		t.Errorf("MaxWorkers = %d, want 8", loaded.Performance.MaxWorkers)
	}
	if got := loaded.Sort.Categories["Drone"]; len(got) != 1 || got[0] != ".insv" {
		t.Errorf("Categories[Drone] = %v, want [.insv]", got)
	}
}

func TestLoadFromFile_PartialOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := []byte("compare:\n  method: binary\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Compare.Method != models.DigestBinary {
		t.Errorf("Method = %s, want binary", cfg.Compare.Method)
	}
	// Unmentioned settings keep their defaults
	if cfg.Performance.MaxWorkers != 5 {
		t.Errorf("MaxWorkers = %d, want default 5", cfg.Performance.MaxWorkers)
	}
	if cfg.Output.Format != "human" {
		t.Errorf("Output.Format = %s, want human", cfg.Output.Format)
	}
}

func TestLoadFromFile_RejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := []byte("sort:\n  action: shred\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromFile(path); err == nil {
		t.Error("LoadFromFile() should reject invalid configuration")
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Error("LoadFromFile() should fail on missing file")
	}
}
