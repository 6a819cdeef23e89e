package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/GlebRadaev/bumdes/internal/config"
)

const timeLayout = "15:04:05 02-01-2006"

var logLvlMap = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}

// ParseLevel maps a LOG_LVL value to a zap level. Unknown values fall back
// to error.
func ParseLevel(s string) (zapcore.Level, bool) {
	lvl, ok := logLvlMap[s]
	if !ok {
		return zapcore.ErrorLevel, false
	}
	return lvl, true
}

// InitLogger replaces the global zap logger; services log through zap.L().
func InitLogger(conf *config.Config) error {
	lvl, known := ParseLevel(conf.LogLvl)

	c := zap.Config{
		Level:    zap.NewAtomicLevelAt(lvl),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			MessageKey:     "msg",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeTime:     zapcore.TimeEncoderOfLayout(timeLayout),
			EncodeDuration: zapcore.MillisDurationEncoder,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := c.Build(zap.AddCaller())
	if err != nil {
		return fmt.Errorf("unable to create zap logger: %w", err)
	}
	zap.ReplaceGlobals(logger)

	if !known {
		logger.Error("unsupported log level, using error", zap.String("LOG_LVL", conf.LogLvl))
	}
	return nil
}
