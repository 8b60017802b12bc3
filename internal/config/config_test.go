package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"FUTILS_LOG_LEVEL", "FUTILS_LOG_FORMAT", "FUTILS_SYMBOL", "FUTILS_JSON_INDENT"} {
		t.Setenv(key, "")
	}
	// FUTILS_PREFIX counts when present, even empty
	t.Setenv("FUTILS_PREFIX", "")
	os.Unsetenv("FUTILS_PREFIX")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Comment.MinLength != 10 {
		t.Errorf("expected MinLength=10, got %d", cfg.Comment.MinLength)
	}
	if cfg.Comment.MinSymbols != 1 {
		t.Errorf("expected MinSymbols=1, got %d", cfg.Comment.MinSymbols)
	}
	if cfg.SymbolRune() != '*' {
		t.Errorf("expected Symbol=*, got %q", cfg.Comment.Symbol)
	}
	if cfg.JSON.Indent != 2 {
		t.Errorf("expected Indent=2, got %d", cfg.JSON.Indent)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Comment.Symbol = "#"
	cfg.Comment.Prefix = "// "
	cfg.JSON.Sort = true
	cfg.SQL.KeywordCase = "upper"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Comment.Symbol != "#" {
		t.Errorf("expected Symbol=#, got %s", loaded.Comment.Symbol)
	}
	if loaded.Comment.Prefix != "// " {
		t.Errorf("expected Prefix=%q, got %q", "// ", loaded.Comment.Prefix)
	}
	if !loaded.JSON.Sort {
		t.Error("expected JSON.Sort=true")
	}
	if loaded.SQL.KeywordCase != "upper" {
		t.Errorf("expected KeywordCase=upper, got %s", loaded.SQL.KeywordCase)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Comment.MinLength != DefaultConfig().Comment.MinLength {
		t.Errorf("expected default MinLength, got %d", cfg.Comment.MinLength)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("comment:\n  min_length: 30\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Comment.MinLength != 30 {
		t.Errorf("expected MinLength=30, got %d", cfg.Comment.MinLength)
	}
	if cfg.Comment.Symbol != "*" {
		t.Errorf("expected default Symbol, got %q", cfg.Comment.Symbol)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level, got %q", cfg.Logging.Level)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("comment: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad_NormalizesCase(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "logging:\n  level: INFO\n  format: JSON\nsql:\n  keyword_case: Upper\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" || cfg.SQL.KeywordCase != "upper" {
		t.Errorf("expected lower-case settings, got level=%q format=%q keyword_case=%q",
			cfg.Logging.Level, cfg.Logging.Format, cfg.SQL.KeywordCase)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("normalized config should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative min length", func(c *Config) { c.Comment.MinLength = -1 }},
		{"negative min symbols", func(c *Config) { c.Comment.MinSymbols = -2 }},
		{"empty symbol", func(c *Config) { c.Comment.Symbol = "" }},
		{"multi-character symbol", func(c *Config) { c.Comment.Symbol = "**" }},
		{"negative indent", func(c *Config) { c.JSON.Indent = -4 }},
		{"zero concurrency", func(c *Config) { c.JSON.Concurrency = 0 }},
		{"unknown keyword case", func(c *Config) { c.SQL.KeywordCase = "title" }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "trace" }},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"log format not normalized", func(c *Config) { c.Logging.Format = "JSON" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Comment.Symbol = "é"
	if err := cfg.Validate(); err != nil {
		t.Errorf("single multibyte symbol should be valid: %v", err)
	}
}

func TestLoggingConfig_IsCategoryEnabled(t *testing.T) {
	cfg := LoggingConfig{}
	if !cfg.IsCategoryEnabled("json") {
		t.Error("categories should default to enabled")
	}

	cfg.Categories = map[string]bool{"json": false, "sql": true}
	if cfg.IsCategoryEnabled("json") {
		t.Error("json should be disabled")
	}
	if !cfg.IsCategoryEnabled("sql") {
		t.Error("sql should be enabled")
	}
	if !cfg.IsCategoryEnabled("watch") {
		t.Error("unlisted category should be enabled")
	}
}
