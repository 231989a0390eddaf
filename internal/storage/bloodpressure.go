// ABOUTME: Blood pressure repository: schema mapping and validation rules.
// ABOUTME: Records are keyed by their UUID.
package storage

import (
	"github.com/google/uuid"
	"github.com/harperreed/healthlog/internal/models"
)

const bloodPressureColumns = "id, measurement_date, measurement_time, systolic, diastolic, pulse, unit, medication, note"

// BloodPressureRepository stores blood pressure measurements.
type BloodPressureRepository struct {
	*Table[models.BloodPressureRecord, uuid.UUID]
}

var _ Repository[models.BloodPressureRecord, uuid.UUID] = (*BloodPressureRepository)(nil)

// NewBloodPressureRepository returns a repository backed by the SQLite file
// at path. The file is opened on first use.
func NewBloodPressureRepository(path string, opts ...Option) *BloodPressureRepository {
	return &BloodPressureRepository{Table: newTable(bloodPressureSchema, path, opts)}
}

var bloodPressureSchema = schema[models.BloodPressureRecord, uuid.UUID]{
	kind:       "blood pressure",
	table:      "blood_pressure",
	columns:    []string{"id", "measurement_date", "measurement_time", "systolic", "diastolic", "pulse", "unit", "medication", "note"},
	keyColumn:  "id",
	migrations: "blood_pressure",

	listDescending: `SELECT ` + bloodPressureColumns + ` FROM blood_pressure
		ORDER BY measurement_date DESC, measurement_time DESC, id DESC
		LIMIT ? OFFSET ?`,
	forDay: `SELECT ` + bloodPressureColumns + ` FROM blood_pressure
		WHERE measurement_date = ?
		ORDER BY measurement_time DESC, id DESC`,

	keyOf:     func(r *models.BloodPressureRecord) uuid.UUID { return r.ID },
	keyArg:    func(id uuid.UUID) any { return id.String() },
	keyIsNull: func(id uuid.UUID) bool { return id == uuid.Nil },
	scan:      scanBloodPressure,
	values: func(r *models.BloodPressureRecord) []any {
		date, clock := splitTimestamp(r.TimeOfMeasurement)
		return []any{r.ID.String(), date, clock, r.Systolic, r.Diastolic, r.Pulse, string(r.Unit), string(r.Medication), *r.Note}
	},
	validate: validateBloodPressure,
}

func scanBloodPressure(row scanner) (*models.BloodPressureRecord, error) {
	var (
		r                 models.BloodPressureRecord
		date, clock, note string
		unit, medication  string
	)
	if err := row.Scan(&r.ID, &date, &clock, &r.Systolic, &r.Diastolic, &r.Pulse, &unit, &medication, &note); err != nil {
		return nil, err
	}

	measured, err := joinTimestamp(date, clock)
	if err != nil {
		return nil, err
	}
	r.TimeOfMeasurement = measured
	r.Unit = models.BloodPressureUnit(unit)
	r.Medication = models.MedicationState(medication)
	r.Note = &note
	return &r, nil
}

func validateBloodPressure(r *models.BloodPressureRecord) []FieldError {
	var v violations
	v.check(r.ID != uuid.Nil, "id", "is required")
	v.check(!r.TimeOfMeasurement.IsZero(), "time_of_measurement", "is required")
	v.check(r.Systolic >= 0, "systolic", "must not be negative")
	v.check(r.Diastolic >= 0, "diastolic", "must not be negative")
	v.check(r.Pulse >= 0, "pulse", "must not be negative")
	v.check(r.Unit.IsValid(), "unit", "must be mmHg or kPa")
	v.check(r.Medication.IsValid(), "medication", "must be none, taken or not_taken")
	v.check(r.Note != nil, "note", "is required")
	return v
}
