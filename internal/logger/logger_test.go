package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	for _, json := range []bool{true, false} {
		for _, debug := range []bool{true, false} {
			logger, err := New(json, debug)
			if err != nil {
				t.Fatalf("New(%v, %v) returned error: %v", json, debug, err)
			}
			if logger == nil {
				t.Fatalf("New(%v, %v) returned nil logger", json, debug)
			}
		}
	}
}

func TestWithRun(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	WithRun(logger, "run-123").Info("test log")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if ctx := entries[0].ContextMap(); ctx[FieldRunID] != "run-123" {
		t.Fatalf("expected run_id field run-123, got %q", ctx[FieldRunID])
	}

	// Nil logger falls back without panicking.
	WithRun(nil, "run-456").Info("another log")

	// Empty run ID leaves the logger unchanged.
	unchanged := WithRun(logger, "")
	if unchanged != logger {
		t.Fatalf("expected unchanged logger for empty run ID")
	}
}

func TestTruncateForLog(t *testing.T) {
	tests := []struct {
		in       string
		limit    int
		expected string
	}{
		{"short", 10, "short"},
		{"  padded  ", 10, "padded"},
		{"abcdefghij", 5, "abcde..."},
		{"anything", 0, ""},
	}

	for _, tt := range tests {
		if got := TruncateForLog(tt.in, tt.limit); got != tt.expected {
			t.Fatalf("TruncateForLog(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.expected)
		}
	}
}
