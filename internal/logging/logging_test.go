// ABOUTME: Tests for logger construction and level handling.
// ABOUTME: Verifies level filtering and the healthlog prefix.
package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantWarn  bool
	}{
		{"", false, true},
		{"debug", true, true},
		{"info", false, true},
		{"error", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := New(&buf, tt.level)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}

			logger.Debug("dbg", "a", 1)
			logger.Warn("wrn", "b", 2)
			out := buf.String()

			if got := strings.Contains(out, "dbg"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v\n%s", got, tt.wantDebug, out)
			}
			if got := strings.Contains(out, "wrn"); got != tt.wantWarn {
				t.Errorf("warn logged = %v, want %v\n%s", got, tt.wantWarn, out)
			}
		})
	}
}

func TestNew_PrefixAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.With("table", "weight").Info("opened")

	out := buf.String()
	if !strings.Contains(out, Prefix) {
		t.Errorf("expected prefix %q in output: %s", Prefix, out)
	}
	if !strings.Contains(out, "table=weight") {
		t.Errorf("expected table=weight in output: %s", out)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "chatty"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	// Must not panic or write anywhere.
	logger.Error("dropped", "k", "v")
}
