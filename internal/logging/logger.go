// Package logging builds the zap logger for futils and hands out named
// per-category children. Logs always go to stderr; stdout is reserved for
// command output.
//
// Logging is controlled by debug_mode in the config file: when false (and
// --verbose is not given) only warnings and errors are emitted.
package logging

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"futils/internal/config"
)

// Category represents a log category/system
type Category string

const (
	CategoryComment Category = "comment" // Banner rendering
	CategoryJSON    Category = "json"    // JSON formatting
	CategorySQL     Category = "sql"     // SQL formatting and checks
	CategoryWatch   Category = "watch"   // File watching
	CategoryConfig  Category = "config"  // Config loading
)

var (
	base    = zap.NewNop()
	enabled = func(Category) bool { return true }
	mu      sync.RWMutex
)

// New builds a logger from cfg. verbose forces debug level.
func New(cfg config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}
	switch {
	case verbose:
		level = zapcore.DebugLevel
	case !cfg.DebugMode && level < zapcore.WarnLevel:
		level = zapcore.WarnLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	zcfg.Sampling = nil

	switch cfg.Format {
	case "", "console":
		zcfg.Encoding = "console"
		zcfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zcfg.DisableStacktrace = true
	case "json":
		zcfg.Encoding = "json"
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// Initialize installs logger as the root for Get. Categories switched off in
// cfg get a no-op logger.
func Initialize(logger *zap.Logger, cfg config.LoggingConfig) {
	mu.Lock()
	defer mu.Unlock()

	if logger == nil {
		logger = zap.NewNop()
	}
	base = logger
	enabled = func(c Category) bool { return cfg.IsCategoryEnabled(string(c)) }

	logger.Named(string(CategoryConfig)).Debug("logging initialized",
		zap.String("level", cfg.Level),
		zap.String("format", cfg.Format),
		zap.Bool("debug_mode", cfg.DebugMode))
}

// Get returns the logger for a category.
func Get(category Category) *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()

	if !enabled(category) {
		return zap.NewNop()
	}
	return base.Named(string(category))
}

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		category: category,
		op:       operation,
		start:    time.Now(),
	}
}

// Stop ends the timer and logs the duration at debug level
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("operation completed", zap.String("op", t.op), zap.Duration("elapsed", elapsed))
	return elapsed
}

// StopWithThreshold logs a warning if duration exceeds threshold
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("operation slow",
			zap.String("op", t.op),
			zap.Duration("elapsed", elapsed),
			zap.Duration("threshold", threshold))
	} else {
		Get(t.category).Debug("operation completed", zap.String("op", t.op), zap.Duration("elapsed", elapsed))
	}
	return elapsed
}
