// Package logger builds the zap logger used across the pipeline.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Structured log field keys shared across packages, so a run can be traced by
// filtering on one key.
const (
	FieldRunID   = "run_id"
	FieldStudent = "student"
	FieldHost    = "host"
	FieldURL     = "url"
)

// New builds a logger writing to stdout. JSON encoding is for machine
// consumption; console for humans. Debug enables per-request fetch logging.
func New(json bool, debug bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	encoding := "console"

	if json {
		encoding = "json"
	}

	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "msg",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	defer logger.Sync()

	return logger, nil
}

// WithRun attaches the run identifier to a logger. A nil logger falls back to
// a no-op logger so call sites never have to nil-check.
func WithRun(logger *zap.Logger, runID string) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if runID == "" {
		return logger
	}
	return logger.With(zap.String(FieldRunID, runID))
}

// TruncateForLog shortens the provided string to the specified limit, appending
// an ellipsis when truncated. Fetched page bodies do not belong in logs whole.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
