package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/GlebRadaev/bumdes/internal/config"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name        string
		logLvl      string
		enabled     zapcore.Level
		disabled    zapcore.Level
		hasDisabled bool
	}{
		{name: "Info", logLvl: "info", enabled: zapcore.InfoLevel, disabled: zapcore.DebugLevel, hasDisabled: true},
		{name: "Warn", logLvl: "warn", enabled: zapcore.WarnLevel, disabled: zapcore.InfoLevel, hasDisabled: true},
		{name: "Error", logLvl: "error", enabled: zapcore.ErrorLevel, disabled: zapcore.WarnLevel, hasDisabled: true},
		{name: "Debug", logLvl: "debug", enabled: zapcore.DebugLevel},
		{name: "Unknown falls back to error", logLvl: "verbose", enabled: zapcore.ErrorLevel, disabled: zapcore.InfoLevel, hasDisabled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, InitLogger(&config.Config{LogLvl: tt.logLvl}))

			assert.True(t, zap.L().Core().Enabled(tt.enabled))
			if tt.hasDisabled {
				assert.False(t, zap.L().Core().Enabled(tt.disabled))
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	lvl, ok := ParseLevel("warn")
	assert.True(t, ok)
	assert.Equal(t, zapcore.WarnLevel, lvl)

	lvl, ok = ParseLevel("")
	assert.False(t, ok)
	assert.Equal(t, zapcore.ErrorLevel, lvl)
}
