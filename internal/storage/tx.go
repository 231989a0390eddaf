// ABOUTME: Transaction helper used by every mutating repository operation.
// ABOUTME: Commits on success, rolls back on error or panic.
package storage

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
)

// withTx begins a transaction, runs fn, and commits on success or rolls
// back on error. Panics roll back and are rethrown.
func withTx(db *sql.DB, logger *log.Logger, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Warn("rollback failed", "err", rbErr, "cause", err)
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("commit transaction: %w", cErr)
		}
	}()

	return fn(tx)
}
