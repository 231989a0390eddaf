// ABOUTME: Blood pressure record with medication state and free-form note.
// ABOUTME: Identifier-addressed: a random UUID assigned at creation.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MedicationState records whether blood pressure medication was involved.
type MedicationState string

const (
	MedicationNone     MedicationState = "none"
	MedicationTaken    MedicationState = "taken"
	MedicationNotTaken MedicationState = "not_taken"
)

// IsValid reports whether m is a known medication state.
func (m MedicationState) IsValid() bool {
	switch m {
	case MedicationNone, MedicationTaken, MedicationNotTaken:
		return true
	}
	return false
}

// ParseMedicationState parses "none", "taken" or "not_taken".
func ParseMedicationState(s string) (MedicationState, error) {
	m := MedicationState(s)
	if !m.IsValid() {
		return "", fmt.Errorf("unknown medication state: %q (use none, taken or not_taken)", s)
	}
	return m, nil
}

// BloodPressureRecord is a single blood pressure measurement.
type BloodPressureRecord struct {
	ID                uuid.UUID         `json:"id"`
	TimeOfMeasurement time.Time         `json:"time_of_measurement"`
	Systolic          float64           `json:"systolic"`
	Diastolic         float64           `json:"diastolic"`
	Pulse             int               `json:"pulse"`
	Unit              BloodPressureUnit `json:"unit"`
	Medication        MedicationState   `json:"medication"`
	// Note may be empty but must not be nil when stored.
	Note *string `json:"note"`
}

// NewBloodPressureRecord creates a record measured now with no medication and an empty note.
func NewBloodPressureRecord(systolic, diastolic float64, pulse int, unit BloodPressureUnit) *BloodPressureRecord {
	note := ""
	return &BloodPressureRecord{
		ID:                uuid.New(),
		TimeOfMeasurement: time.Now().Truncate(time.Second),
		Systolic:          systolic,
		Diastolic:         diastolic,
		Pulse:             pulse,
		Unit:              unit,
		Medication:        MedicationNone,
		Note:              &note,
	}
}

// WithTime sets the measurement time, truncated to whole seconds.
func (r *BloodPressureRecord) WithTime(t time.Time) *BloodPressureRecord {
	r.TimeOfMeasurement = t.Truncate(time.Second)
	return r
}

// WithNote sets the note.
func (r *BloodPressureRecord) WithNote(note string) *BloodPressureRecord {
	r.Note = &note
	return r
}

// WithMedication sets the medication state.
func (r *BloodPressureRecord) WithMedication(m MedicationState) *BloodPressureRecord {
	r.Medication = m
	return r
}

// In returns a copy of the record with its pressure values converted to unit.
func (r *BloodPressureRecord) In(unit BloodPressureUnit) *BloodPressureRecord {
	c := *r
	c.Systolic = ConvertBloodPressure(r.Systolic, r.Unit, unit)
	c.Diastolic = ConvertBloodPressure(r.Diastolic, r.Unit, unit)
	c.Unit = unit
	return &c
}
