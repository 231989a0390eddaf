// ABOUTME: Bundle of every widget repository, one database file each.
// ABOUTME: OpenAll wires them to a data directory; Close disposes all of them.
package storage

import (
	"errors"
	"path/filepath"
)

// Database file names inside the data directory.
const (
	BloodPressureFile = "blood_pressure.db"
	WeightFile        = "weight.db"
	StepCountFile     = "step_count.db"
)

// Repositories holds one repository per widget.
type Repositories struct {
	BloodPressure *BloodPressureRepository
	Weight        *WeightRepository
	StepCount     *StepCountRepository
}

// OpenAll creates the widget repositories under dir. Database files are
// opened lazily by the first operation on each repository.
func OpenAll(dir string, opts ...Option) *Repositories {
	return &Repositories{
		BloodPressure: NewBloodPressureRepository(filepath.Join(dir, BloodPressureFile), opts...),
		Weight:        NewWeightRepository(filepath.Join(dir, WeightFile), opts...),
		StepCount:     NewStepCountRepository(filepath.Join(dir, StepCountFile), opts...),
	}
}

// Close disposes every repository and joins their errors.
func (r *Repositories) Close() error {
	return errors.Join(
		r.BloodPressure.Close(),
		r.Weight.Close(),
		r.StepCount.Close(),
	)
}
