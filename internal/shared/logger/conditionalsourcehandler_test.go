package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestConditionalSourceHandler(t *testing.T) {
	tests := []struct {
		name             string
		level            slog.Level
		showSourceLevels []slog.Level
		shouldHaveSource bool
	}{
		{
			name:             "INFO without source config",
			level:            slog.LevelInfo,
			showSourceLevels: []slog.Level{slog.LevelWarn, slog.LevelError},
			shouldHaveSource: false,
		},
		{
			name:             "WARN with source config",
			level:            slog.LevelWarn,
			showSourceLevels: []slog.Level{slog.LevelWarn, slog.LevelError},
			shouldHaveSource: true,
		},
		{
			name:             "ERROR with source config",
			level:            slog.LevelError,
			showSourceLevels: []slog.Level{slog.LevelWarn, slog.LevelError},
			shouldHaveSource: true,
		},
		{
			name:             "INFO with explicit source config",
			level:            slog.LevelInfo,
			showSourceLevels: []slog.Level{slog.LevelInfo, slog.LevelWarn, slog.LevelError},
			shouldHaveSource: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			baseHandler := slog.NewTextHandler(&buf, &slog.HandlerOptions{
				AddSource: false,
			})
			handler := NewConditionalSourceHandler(baseHandler, tt.showSourceLevels...)

			log := slog.New(handler)
			log.Log(context.Background(), tt.level, "test message")

			output := buf.String()
			hasSource := strings.Contains(output, "source=")

			if hasSource != tt.shouldHaveSource {
				t.Errorf("expected source=%v, got %v. Output: %s", tt.shouldHaveSource, hasSource, output)
			}
		})
	}
}

func TestConditionalSourceHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	baseHandler := slog.NewTextHandler(&buf, &slog.HandlerOptions{
		AddSource: false,
	})
	handler := NewConditionalSourceHandler(baseHandler, slog.LevelError)

	log := slog.New(handler).With("user", "carolina")
	log.Info("test message")

	output := buf.String()
	if strings.Contains(output, "source=") {
		t.Errorf("expected no source for INFO level, but found it. Output: %s", output)
	}
	if !strings.Contains(output, "user=carolina") {
		t.Errorf("expected user attribute, but not found. Output: %s", output)
	}
}

func TestConditionalSourceHandlerWithGroup(t *testing.T) {
	var buf bytes.Buffer
	baseHandler := slog.NewTextHandler(&buf, &slog.HandlerOptions{
		AddSource: false,
	})
	handler := NewConditionalSourceHandler(baseHandler, slog.LevelError)

	log := slog.New(handler).WithGroup("feed")
	log.Info("test message", "table", "HLP_PETICIONES")

	output := buf.String()
	if strings.Contains(output, "source=") {
		t.Errorf("expected no source for INFO level, but found it. Output: %s", output)
	}
	if !strings.Contains(output, "table") {
		t.Errorf("expected feed group with table, but not found. Output: %s", output)
	}
}
