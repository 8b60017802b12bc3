package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all futils configuration.
type Config struct {
	// Banner defaults for the comment command
	Comment CommentConfig `yaml:"comment"`

	JSON JSONConfig `yaml:"json"`

	SQL SQLConfig `yaml:"sql"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// CommentConfig holds banner defaults.
type CommentConfig struct {
	MinLength  int    `yaml:"min_length"`
	MinSymbols int    `yaml:"min_symbols"`
	Symbol     string `yaml:"symbol"`
	Prefix     string `yaml:"prefix"`
	Fill       bool   `yaml:"fill"`
}

// JSONConfig holds JSON formatter defaults.
type JSONConfig struct {
	Indent int  `yaml:"indent"`
	Sort   bool `yaml:"sort"`
	// Concurrency bounds how many files are formatted at once.
	Concurrency int `yaml:"concurrency"`
}

// SQLConfig holds SQL formatter defaults.
type SQLConfig struct {
	KeywordCase string `yaml:"keyword_case"` // lower, upper, preserve
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Comment: CommentConfig{
			MinLength:  10,
			MinSymbols: 1,
			Symbol:     "*",
		},

		JSON: JSONConfig{
			Indent:      2,
			Concurrency: 4,
		},

		SQL: SQLConfig{
			KeywordCase: "lower",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".futils", "config.yaml")
	}
	return filepath.Join(dir, "futils", "config.yaml")
}

// ResolvePath picks the config file to load: an explicit path wins, then
// FUTILS_CONFIG, then DefaultPath.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if path := os.Getenv("FUTILS_CONFIG"); path != "" {
		return path
	}
	return DefaultPath()
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

// normalize lower-cases the enumerated settings so "JSON" or "Info" in a
// file or the environment means the same as the canonical spelling.
func (c *Config) normalize() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.SQL.KeywordCase = strings.ToLower(strings.TrimSpace(c.SQL.KeywordCase))
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if level := os.Getenv("FUTILS_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("FUTILS_LOG_FORMAT"); format != "" {
		c.Logging.Format = format
	}

	if symbol := os.Getenv("FUTILS_SYMBOL"); symbol != "" {
		c.Comment.Symbol = symbol
	}
	// an empty prefix is meaningful, so presence rather than value counts
	if prefix, ok := os.LookupEnv("FUTILS_PREFIX"); ok {
		c.Comment.Prefix = prefix
	}

	if indent := os.Getenv("FUTILS_JSON_INDENT"); indent != "" {
		n, err := strconv.Atoi(indent)
		if err != nil {
			return fmt.Errorf("FUTILS_JSON_INDENT: %q is not an integer", indent)
		}
		c.JSON.Indent = n
	}
	return nil
}

// SymbolRune returns the configured banner symbol.
func (c *Config) SymbolRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Comment.Symbol)
	return r
}

var (
	ValidLogLevels   = []string{"debug", "info", "warn", "error"}
	ValidLogFormats  = []string{"console", "json"}
	ValidKeywordCase = []string{"lower", "upper", "preserve"}
)

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Comment.MinLength < 0 {
		return fmt.Errorf("%w: comment.min_length must not be negative, got %d", ErrInvalidConfig, c.Comment.MinLength)
	}
	if c.Comment.MinSymbols < 0 {
		return fmt.Errorf("%w: comment.min_symbols must not be negative, got %d", ErrInvalidConfig, c.Comment.MinSymbols)
	}
	if utf8.RuneCountInString(c.Comment.Symbol) != 1 {
		return fmt.Errorf("%w: comment.symbol must be a single character, got %q", ErrInvalidConfig, c.Comment.Symbol)
	}
	if c.JSON.Indent < 0 {
		return fmt.Errorf("%w: json.indent must not be negative, got %d", ErrInvalidConfig, c.JSON.Indent)
	}
	if c.JSON.Concurrency < 1 {
		return fmt.Errorf("%w: json.concurrency must be at least 1, got %d", ErrInvalidConfig, c.JSON.Concurrency)
	}
	if !oneOf(c.SQL.KeywordCase, ValidKeywordCase) {
		return fmt.Errorf("%w: invalid sql.keyword_case: %s (valid: %v)", ErrInvalidConfig, c.SQL.KeywordCase, ValidKeywordCase)
	}
	if !oneOf(c.Logging.Level, ValidLogLevels) {
		return fmt.Errorf("%w: invalid logging.level: %s (valid: %v)", ErrInvalidConfig, c.Logging.Level, ValidLogLevels)
	}
	if !oneOf(c.Logging.Format, ValidLogFormats) {
		return fmt.Errorf("%w: invalid logging.format: %s (valid: %v)", ErrInvalidConfig, c.Logging.Format, ValidLogFormats)
	}
	return nil
}

func oneOf(v string, valid []string) bool {
	for _, s := range valid {
		if v == s {
			return true
		}
	}
	return false
}
