package logging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"futils/internal/config"
)

func observe(t *testing.T, cfg config.LoggingConfig) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	Initialize(zap.New(core), cfg)
	t.Cleanup(func() { Initialize(nil, config.LoggingConfig{}) })
	return logs
}

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.LoggingConfig
		verbose   bool
		wantLevel zapcore.Level
	}{
		{
			name:      "production mode clamps to warn",
			cfg:       config.LoggingConfig{Level: "info", Format: "console"},
			wantLevel: zapcore.WarnLevel,
		},
		{
			name:      "error level kept in production mode",
			cfg:       config.LoggingConfig{Level: "error", Format: "json"},
			wantLevel: zapcore.ErrorLevel,
		},
		{
			name:      "debug mode honours level",
			cfg:       config.LoggingConfig{Level: "info", DebugMode: true},
			wantLevel: zapcore.InfoLevel,
		},
		{
			name:      "verbose forces debug",
			cfg:       config.LoggingConfig{Level: "error"},
			verbose:   true,
			wantLevel: zapcore.DebugLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg, tt.verbose)
			require.NoError(t, err)
			defer logger.Sync()

			assert.True(t, logger.Core().Enabled(tt.wantLevel))
			if tt.wantLevel > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.wantLevel-1))
			}
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "loud"}, false)
	assert.Error(t, err)

	_, err = New(config.LoggingConfig{Level: "info", Format: "xml"}, false)
	assert.Error(t, err)
}

func TestGet_NamesCategory(t *testing.T) {
	logs := observe(t, config.LoggingConfig{})

	Get(CategoryJSON).Info("formatted", zap.String("file", "a.json"))

	entries := logs.FilterMessage("formatted").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "json", entries[0].LoggerName)
	assert.Equal(t, "a.json", entries[0].ContextMap()["file"])
}

func TestGet_DisabledCategoryIsSilent(t *testing.T) {
	logs := observe(t, config.LoggingConfig{Categories: map[string]bool{"sql": false}})

	Get(CategorySQL).Warn("dropped")
	Get(CategoryWatch).Warn("kept")

	assert.Equal(t, 0, logs.FilterMessage("dropped").Len())
	assert.Equal(t, 1, logs.FilterMessage("kept").Len())
}

func TestTimer(t *testing.T) {
	logs := observe(t, config.LoggingConfig{})

	elapsed := StartTimer(CategorySQL, "check").Stop()
	assert.GreaterOrEqual(t, elapsed, time.Duration(0))
	require.Equal(t, 1, logs.FilterMessage("operation completed").Len())

	StartTimer(CategorySQL, "slow").StopWithThreshold(-time.Second)
	entries := logs.FilterMessage("operation slow").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "slow", entries[0].ContextMap()["op"])
}
