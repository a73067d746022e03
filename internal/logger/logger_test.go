package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "debug")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	ctx := context.Background()
	log.Info(ctx, "round finished", String("round", "abc"), Int("mistakes", 2), Float64("wpm", 61.5))
	log.Error(ctx, "sample failed", Error(errors.New("boom")))

	out := buf.String()
	for _, want := range []string{"round finished", "round=abc", "mistakes=2", "wpm=61.5", "error=boom", "source=logger/logger_test.go:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %s", want, out)
		}
	}
}

func TestLoggerLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "warn")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	ctx := context.Background()
	log.Debug(ctx, "hidden debug")
	log.Info(ctx, "hidden info")
	log.Warn(ctx, "shown warn")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected debug/info to be filtered: %s", out)
	}
	if !strings.Contains(out, "shown warn") {
		t.Fatalf("expected warn record: %s", out)
	}
}

func TestNamedGroupsFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "info")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	log.Named("corpus").Info(context.Background(), "picked", String("file", "a.rs"))
	if !strings.Contains(buf.String(), "corpus.file=a.rs") {
		t.Fatalf("expected grouped field: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{" warning ", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNopDiscards(t *testing.T) {
	log := Nop()
	log.Error(context.Background(), "nothing")
	log.Named("x").Info(context.Background(), "still nothing")
}
