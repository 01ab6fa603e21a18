// Package logging builds the zap logger. The terminal belongs to the UI, so
// output goes to a file unless configured otherwise.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // file path, stdout or stderr; empty means DefaultPath
}

// DefaultPath is the log file used when Output is empty.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), "rfiles.log")
}

// New builds a logger for cfg. Unknown levels fall back to info.
func New(cfg Config) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zc zap.Config
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.Sampling = nil
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	out := cfg.Output
	if out == "" {
		out = DefaultPath()
	}
	zc.OutputPaths = []string{out}
	zc.ErrorOutputPaths = []string{out}

	return zc.Build(zap.AddStacktrace(zapcore.ErrorLevel))
}

// Must is New for main: a broken log config degrades to a no-op logger.
func Must(cfg Config) *zap.Logger {
	logger, err := New(cfg)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
