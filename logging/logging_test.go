package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/phuslu/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"WARN", log.WarnLevel},
		{" error ", log.ErrorLevel},
		{"", log.InfoLevel},
		{"chatty", log.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New("warn", JSON, &buf)

	l.Info().Msg("hidden")
	l.Warn().Str("ticker", "AAPL").Msg("quote unavailable")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("entry is not JSON: %v", err)
	}
	if entry["ticker"] != "AAPL" || entry["message"] != "quote unavailable" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestOrNop(t *testing.T) {
	l := OrNop(nil)
	l.Error().Msg("discarded") // must not panic
	var buf bytes.Buffer
	own := New("info", Console, &buf)
	if OrNop(own) != own {
		t.Error("OrNop should return a non nil logger unchanged")
	}
}
