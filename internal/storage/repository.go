// ABOUTME: Repository interface for local health record storage.
// ABOUTME: Defines the CRUD contract shared by every widget's record type.
package storage

import "github.com/harperreed/healthlog/internal/models"

// Repository defines the storage contract for one record kind R keyed by K.
// Identifier-addressed records use uuid.UUID keys; day-addressed records use models.Day.
type Repository[R any, K comparable] interface {
	// Count returns the number of stored records.
	Count() (int, error)
	// Get returns the single record stored under key.
	Get(key K) (*R, error)
	// ListDescending returns up to count records, newest first, skipping offset.
	ListDescending(offset, count int) ([]*R, error)
	// ListForDay returns every record measured on day, newest first.
	ListForDay(day models.Day) ([]*R, error)
	// CreateOrUpdate validates r and inserts it, or overwrites the row with the same key.
	CreateOrUpdate(r *R) error
	// Delete removes exactly one record.
	Delete(key K) error
	// DeleteAll removes every record.
	DeleteAll() error

	// Lifecycle
	State() State
	Close() error
}

// State is the lifecycle state of a repository.
type State int

const (
	// StateUnopened means the database handle has not been opened yet.
	StateUnopened State = iota
	StateActive
	// StateUpgradeFailed means the stored schema is older than this build's.
	StateUpgradeFailed
	// StateDowngradeFailed means the stored schema is newer than this build's.
	StateDowngradeFailed
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateActive:
		return "active"
	case StateUpgradeFailed:
		return "upgrade failed"
	case StateDowngradeFailed:
		return "downgrade failed"
	case StateDisposed:
		return "disposed"
	}
	return "unknown"
}
