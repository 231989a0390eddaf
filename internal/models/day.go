// ABOUTME: Calendar day type used to bucket measurements and key step counts.
// ABOUTME: Days are ISO-8601 dates (YYYY-MM-DD) in the measurement's local time.
package models

import (
	"fmt"
	"time"
)

// DayLayout is the storage and display layout of a Day.
const DayLayout = "2006-01-02"

// Day is a calendar date such as "2025-01-31". The zero value means "no day".
type Day string

// DayOf returns the calendar day of t in t's own location.
func DayOf(t time.Time) Day {
	return Day(t.Format(DayLayout))
}

// Today returns the current local calendar day.
func Today() Day {
	return DayOf(time.Now())
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.ParseInLocation(DayLayout, s, time.Local)
	if err != nil {
		return "", fmt.Errorf("parse day %q: %w", s, err)
	}
	return DayOf(t), nil
}

// IsZero reports whether d is the empty day.
func (d Day) IsZero() bool {
	return d == ""
}

// Start returns local midnight at the beginning of d.
func (d Day) Start() (time.Time, error) {
	return time.ParseInLocation(DayLayout, string(d), time.Local)
}

func (d Day) String() string {
	return string(d)
}

// MeasurementLayouts are the accepted input forms of a measurement time,
// tried in order.
var MeasurementLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04", DayLayout}

// ParseMeasurementTime parses user input into a local measurement time.
// Times carrying a zone are converted to local time, since records store
// the local wall clock.
func ParseMeasurementTime(s string) (time.Time, error) {
	for _, layout := range MeasurementLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.In(time.Local).Truncate(time.Second), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (use RFC3339, YYYY-MM-DD HH:MM or YYYY-MM-DD)", s)
}
