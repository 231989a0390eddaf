// ABOUTME: JSON views of stored records, converted to the preferred display units.
// ABOUTME: Identifiers and times are rendered as strings for tool output schemas.
package mcp

import (
	"time"

	"github.com/harperreed/healthlog/internal/models"
)

// displayDecimals is the rounding applied to converted values.
const displayDecimals = 2

type bloodPressureView struct {
	ID         string  `json:"id"`
	MeasuredAt string  `json:"measured_at"`
	Systolic   float64 `json:"systolic"`
	Diastolic  float64 `json:"diastolic"`
	Pulse      int     `json:"pulse"`
	Unit       string  `json:"unit"`
	Medication string  `json:"medication"`
	Note       string  `json:"note,omitempty"`
}

type weightView struct {
	ID         string  `json:"id"`
	MeasuredAt string  `json:"measured_at"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
}

type stepCountView struct {
	ID          string `json:"id"`
	Day         string `json:"day"`
	MeasuredAt  string `json:"measured_at"`
	Steps       int    `json:"steps"`
	Goal        int    `json:"goal"`
	GoalReached int    `json:"goal_reached_percent"`
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func viewBloodPressure(r *models.BloodPressureRecord, unit models.BloodPressureUnit) bloodPressureView {
	c := r.In(unit)
	v := bloodPressureView{
		ID:         c.ID.String(),
		MeasuredAt: formatTime(c.TimeOfMeasurement),
		Systolic:   models.RoundHalfAwayFromZero(c.Systolic, displayDecimals),
		Diastolic:  models.RoundHalfAwayFromZero(c.Diastolic, displayDecimals),
		Pulse:      c.Pulse,
		Unit:       string(c.Unit),
		Medication: string(c.Medication),
	}
	if c.Note != nil {
		v.Note = *c.Note
	}
	return v
}

func viewWeight(r *models.WeightRecord, unit models.WeightUnit) weightView {
	c := r.In(unit)
	return weightView{
		ID:         c.ID.String(),
		MeasuredAt: formatTime(c.TimeOfMeasurement),
		Value:      models.RoundHalfAwayFromZero(c.Value, displayDecimals),
		Unit:       string(c.Unit),
	}
}

func viewStepCount(r *models.StepCountRecord) stepCountView {
	return stepCountView{
		ID:          r.ID.String(),
		Day:         r.Day().String(),
		MeasuredAt:  formatTime(r.TimeOfMeasurement),
		Steps:       r.StepCount,
		Goal:        r.Goal,
		GoalReached: r.GoalReached(),
	}
}

// recordsView holds the records of one widget; the other slices stay empty.
type recordsView struct {
	Widget        string              `json:"widget"`
	BloodPressure []bloodPressureView `json:"blood_pressure,omitempty"`
	Weight        []weightView        `json:"weight,omitempty"`
	StepCount     []stepCountView     `json:"step_count,omitempty"`
	Count         int                 `json:"count"`
	Message       string              `json:"message,omitempty"`
}
