// ABOUTME: Shared fixtures for repository tests.
// ABOUTME: Each helper opens a repository on a fresh temp-dir database.
package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// baseTime is a fixed local measurement time used across tests.
var baseTime = time.Date(2025, 3, 14, 8, 30, 0, 0, time.Local)

func setupWeight(t *testing.T, opts ...Option) *WeightRepository {
	t.Helper()
	repo := NewWeightRepository(filepath.Join(t.TempDir(), WeightFile), opts...)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func setupBloodPressure(t *testing.T, opts ...Option) *BloodPressureRepository {
	t.Helper()
	repo := NewBloodPressureRepository(filepath.Join(t.TempDir(), BloodPressureFile), opts...)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func setupStepCount(t *testing.T, opts ...Option) *StepCountRepository {
	t.Helper()
	repo := NewStepCountRepository(filepath.Join(t.TempDir(), StepCountFile), opts...)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// rawDB opens a second handle on a repository file for out-of-band checks.
func rawDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
