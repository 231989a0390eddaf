// ABOUTME: Daily step count record and goal progress calculation.
// ABOUTME: Day-addressed: at most one record per calendar day.
package models

import (
	"math/bits"
	"time"

	"github.com/google/uuid"
)

// DefaultStepGoal is the daily goal seeded into a fresh step count database.
const DefaultStepGoal = 10000

// StepCountRecord is the step count for one day. Its natural key is Day();
// ID only identifies the record for display.
type StepCountRecord struct {
	ID                uuid.UUID `json:"id"`
	TimeOfMeasurement time.Time `json:"time_of_measurement"`
	StepCount         int       `json:"step_count"`
	Goal              int       `json:"goal"`
}

// NewStepCountRecord creates a step count record measured now.
func NewStepCountRecord(steps, goal int) *StepCountRecord {
	return &StepCountRecord{
		ID:                uuid.New(),
		TimeOfMeasurement: time.Now().Truncate(time.Second),
		StepCount:         steps,
		Goal:              goal,
	}
}

// WithTime sets the measurement time, truncated to whole seconds.
func (r *StepCountRecord) WithTime(t time.Time) *StepCountRecord {
	r.TimeOfMeasurement = t.Truncate(time.Second)
	return r
}

// Day is the local calendar day the steps were counted on.
func (r *StepCountRecord) Day() Day {
	return DayOf(r.TimeOfMeasurement.In(time.Local))
}

// GoalReached returns the percentage of the record's goal reached.
func (r *StepCountRecord) GoalReached() int {
	return GoalPercentage(r.StepCount, r.Goal)
}

// GoalPercentage returns how much of goal count represents, in whole percent.
//
// Zero steps is 0%. A zero goal is always reached. The result is capped at
// 100 and, once count is positive, never drops below 1.
func GoalPercentage(count, goal int) int {
	if count <= 0 {
		return 0
	}
	if goal <= 0 || count >= goal {
		return 100
	}
	// 100*count can overflow for large goals; count < goal keeps hi < goal.
	hi, lo := bits.Mul64(uint64(count), 100)
	pct, _ := bits.Div64(hi, lo, uint64(goal))
	if pct < 1 {
		return 1
	}
	return int(pct)
}
