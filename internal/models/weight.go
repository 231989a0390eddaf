// ABOUTME: Weight record model.
// ABOUTME: Identifier-addressed: a random UUID assigned at creation.
package models

import (
	"time"

	"github.com/google/uuid"
)

// WeightRecord is a single body weight measurement.
type WeightRecord struct {
	ID                uuid.UUID  `json:"id"`
	TimeOfMeasurement time.Time  `json:"time_of_measurement"`
	Value             float64    `json:"value"`
	Unit              WeightUnit `json:"unit"`
}

// NewWeightRecord creates a weight record measured now.
func NewWeightRecord(value float64, unit WeightUnit) *WeightRecord {
	return &WeightRecord{
		ID:                uuid.New(),
		TimeOfMeasurement: time.Now().Truncate(time.Second),
		Value:             value,
		Unit:              unit,
	}
}

// WithTime sets the measurement time, truncated to whole seconds.
func (r *WeightRecord) WithTime(t time.Time) *WeightRecord {
	r.TimeOfMeasurement = t.Truncate(time.Second)
	return r
}

// In returns a copy of the record with its value converted to unit.
func (r *WeightRecord) In(unit WeightUnit) *WeightRecord {
	c := *r
	c.Value = ConvertWeight(r.Value, r.Unit, unit)
	c.Unit = unit
	return &c
}
