// ABOUTME: Tests for logger construction and level parsing.
// ABOUTME: Verifies level filtering on the console writer.
package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Fatalf("ParseLevel(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "warn")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	log.Info().Msg("hidden message")
	log.Warn().Str("post_id", "42").Msg("visible message")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Errorf("info message should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "visible message") || !strings.Contains(out, "post_id=42") {
		t.Errorf("expected warn message with field, got %q", out)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "chatty"); err == nil {
		t.Error("expected error for unknown level")
	}
}
