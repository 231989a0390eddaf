// ABOUTME: Weight repository: schema mapping and validation rules.
// ABOUTME: Records are keyed by their UUID.
package storage

import (
	"github.com/google/uuid"
	"github.com/harperreed/healthlog/internal/models"
)

const weightColumns = "id, measurement_date, measurement_time, value, unit"

// WeightRepository stores body weight measurements.
type WeightRepository struct {
	*Table[models.WeightRecord, uuid.UUID]
}

var _ Repository[models.WeightRecord, uuid.UUID] = (*WeightRepository)(nil)

// NewWeightRepository returns a repository backed by the SQLite file at path.
func NewWeightRepository(path string, opts ...Option) *WeightRepository {
	return &WeightRepository{Table: newTable(weightSchema, path, opts)}
}

var weightSchema = schema[models.WeightRecord, uuid.UUID]{
	kind:       "weight",
	table:      "weight",
	columns:    []string{"id", "measurement_date", "measurement_time", "value", "unit"},
	keyColumn:  "id",
	migrations: "weight",

	listDescending: `SELECT ` + weightColumns + ` FROM weight
		ORDER BY measurement_date DESC, measurement_time DESC, id DESC
		LIMIT ? OFFSET ?`,
	forDay: `SELECT ` + weightColumns + ` FROM weight
		WHERE measurement_date = ?
		ORDER BY measurement_time DESC, id DESC`,

	keyOf:     func(r *models.WeightRecord) uuid.UUID { return r.ID },
	keyArg:    func(id uuid.UUID) any { return id.String() },
	keyIsNull: func(id uuid.UUID) bool { return id == uuid.Nil },
	scan: func(row scanner) (*models.WeightRecord, error) {
		var (
			r                 models.WeightRecord
			date, clock, unit string
		)
		if err := row.Scan(&r.ID, &date, &clock, &r.Value, &unit); err != nil {
			return nil, err
		}
		measured, err := joinTimestamp(date, clock)
		if err != nil {
			return nil, err
		}
		r.TimeOfMeasurement = measured
		r.Unit = models.WeightUnit(unit)
		return &r, nil
	},
	values: func(r *models.WeightRecord) []any {
		date, clock := splitTimestamp(r.TimeOfMeasurement)
		return []any{r.ID.String(), date, clock, r.Value, string(r.Unit)}
	},
	validate: func(r *models.WeightRecord) []FieldError {
		var v violations
		v.check(r.ID != uuid.Nil, "id", "is required")
		v.check(!r.TimeOfMeasurement.IsZero(), "time_of_measurement", "is required")
		v.check(r.Unit.IsValid(), "unit", "must be kg or lb")
		v.check(r.Value >= 0, "value", "must not be negative")
		return v
	},
}
