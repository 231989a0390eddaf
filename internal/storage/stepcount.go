// ABOUTME: Step count repository: one row per calendar day plus the default goal.
// ABOUTME: Writes keep the day unique and drop the old row when a record moves days.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/healthlog/internal/models"
)

const (
	stepCountColumns = "measurement_date, id, measurement_time, step_count, goal"
	defaultGoalKey   = "default_goal"
)

// StepCountRepository stores daily step counts keyed by day.
type StepCountRepository struct {
	*Table[models.StepCountRecord, models.Day]
}

var _ Repository[models.StepCountRecord, models.Day] = (*StepCountRepository)(nil)

// NewStepCountRepository returns a repository backed by the SQLite file at path.
func NewStepCountRepository(path string, opts ...Option) *StepCountRepository {
	return &StepCountRepository{Table: newTable(stepCountSchema, path, opts)}
}

var stepCountSchema = schema[models.StepCountRecord, models.Day]{
	kind:       "step count",
	table:      "step_count",
	columns:    []string{"measurement_date", "id", "measurement_time", "step_count", "goal"},
	keyColumn:  "measurement_date",
	migrations: "step_count",

	listDescending: `SELECT ` + stepCountColumns + ` FROM step_count
		ORDER BY measurement_date DESC, measurement_time DESC
		LIMIT ? OFFSET ?`,
	forDay: `SELECT ` + stepCountColumns + ` FROM step_count
		WHERE measurement_date = ?
		ORDER BY measurement_time DESC`,

	keyOf:     func(r *models.StepCountRecord) models.Day { return r.Day() },
	keyArg:    func(day models.Day) any { return day.String() },
	keyIsNull: func(day models.Day) bool { return day.IsZero() },
	scan: func(row scanner) (*models.StepCountRecord, error) {
		var (
			r           models.StepCountRecord
			date, clock string
		)
		if err := row.Scan(&date, &r.ID, &clock, &r.StepCount, &r.Goal); err != nil {
			return nil, err
		}
		measured, err := joinTimestamp(date, clock)
		if err != nil {
			return nil, err
		}
		r.TimeOfMeasurement = measured
		return &r, nil
	},
	values: func(r *models.StepCountRecord) []any {
		date, clock := splitTimestamp(r.TimeOfMeasurement)
		return []any{date, r.ID.String(), clock, r.StepCount, r.Goal}
	},
	validate: func(r *models.StepCountRecord) []FieldError {
		var v violations
		v.check(r.ID != uuid.Nil, "id", "is required")
		v.check(!r.TimeOfMeasurement.IsZero(), "time_of_measurement", "is required")
		v.check(r.StepCount >= 0, "step_count", "must not be negative")
		v.check(r.Goal >= 0, "goal", "must not be negative")
		return v
	},
	beforeUpsert: releaseMovedDay,
}

// releaseMovedDay deletes the row holding r's identifier on another day, so
// an edited record that changed day leaves nothing behind on the old one.
func releaseMovedDay(tx *sql.Tx, r *models.StepCountRecord) error {
	_, err := tx.Exec(`DELETE FROM step_count WHERE id = ? AND measurement_date <> ?`,
		r.ID.String(), r.Day().String())
	return err
}

// DefaultGoal returns the daily goal used for new step count records.
func (s *StepCountRepository) DefaultGoal() (int, error) {
	var goal int
	err := s.use(func(db *sql.DB) error {
		err := db.QueryRow(`SELECT value FROM step_preferences WHERE key = ?`, defaultGoalKey).Scan(&goal)
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
		}
		return s.opErr("default goal", defaultGoalKey, err)
	})
	return goal, err
}

// SetDefaultGoal stores the daily goal used for new step count records.
func (s *StepCountRepository) SetDefaultGoal(goal int) error {
	if goal <= 0 {
		return fmt.Errorf("%w: goal must be positive, got %d", ErrInvalidArgument, goal)
	}

	return s.use(func(db *sql.DB) error {
		err := withTx(db, s.logger, func(tx *sql.Tx) error {
			_, err := tx.Exec(`INSERT INTO step_preferences (key, value) VALUES (?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value`, defaultGoalKey, goal)
			return err
		})
		return s.opErr("set default goal", defaultGoalKey, err)
	})
}
