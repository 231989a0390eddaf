// ABOUTME: Tests for the Day calendar type.
// ABOUTME: Covers parsing, formatting and zero handling.
package models

import (
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2025-02-28")
	if err != nil {
		t.Fatalf("ParseDay failed: %v", err)
	}
	if d != "2025-02-28" {
		t.Errorf("ParseDay = %q", d)
	}

	for _, bad := range []string{"", "2025-02-30", "28-02-2025", "today"} {
		if _, err := ParseDay(bad); err == nil {
			t.Errorf("ParseDay(%q) expected error", bad)
		}
	}
}

func TestDayStart(t *testing.T) {
	d := DayOf(time.Date(2024, 12, 14, 7, 30, 0, 0, time.Local))
	start, err := d.Start()
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	want := time.Date(2024, 12, 14, 0, 0, 0, 0, time.Local)
	if !start.Equal(want) {
		t.Errorf("Start() = %v, want %v", start, want)
	}

	var zero Day
	if !zero.IsZero() {
		t.Error("zero Day should report IsZero")
	}
}

func TestParseMeasurementTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-01-31 08:15", time.Date(2025, 1, 31, 8, 15, 0, 0, time.Local)},
		{"2025-01-31T08:15", time.Date(2025, 1, 31, 8, 15, 0, 0, time.Local)},
		{"2025-01-31", time.Date(2025, 1, 31, 0, 0, 0, 0, time.Local)},
		{"2025-01-31T08:15:00Z", time.Date(2025, 1, 31, 8, 15, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseMeasurementTime(tt.in)
		if err != nil {
			t.Errorf("ParseMeasurementTime(%q) failed: %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseMeasurementTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if got.Location() != time.Local {
			t.Errorf("ParseMeasurementTime(%q) location = %v, want Local", tt.in, got.Location())
		}
	}

	if _, err := ParseMeasurementTime("yesterday"); err == nil {
		t.Error("expected error for yesterday")
	}
}
