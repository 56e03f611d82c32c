// Package logging builds the zap loggers used by the CLI and the engine.
// Console output goes to stderr; an optional file sink rotates via
// lumberjack.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation policy for the file sink.
const (
	maxSizeMB  = 20
	maxBackups = 3
	maxAgeDays = 14
)

// New creates a logger writing human-readable output to stderr. When
// logFile is non-empty, JSON-encoded entries are additionally written to
// that file with automatic rotation. verbose lowers the threshold to debug.
func New(logFile string, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleCfg),
			zapcore.Lock(os.Stderr),
			level,
		),
	}

	if logFile != "" {
		fileSink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			fileSink,
			level,
		))
	}

	return zap.New(zapcore.NewTee(cores...))
}
