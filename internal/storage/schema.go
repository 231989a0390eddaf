// ABOUTME: Embedded goose migrations and schema version checks per widget database.
// ABOUTME: A fresh database is migrated; any other version mismatch is fatal.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*/*.sql
var migrations embed.FS

// migrationsFor returns the migration directory of one widget database.
func migrationsFor(dir string) fs.FS {
	sub, err := fs.Sub(migrations, "migrations/"+dir)
	if err != nil {
		// fs.Sub only fails on an invalid path, which is a programming error.
		panic(fmt.Sprintf("migrations for %s: %v", dir, err))
	}
	return sub
}

// checkSchema brings a fresh database to the embedded schema version and
// reports the lifecycle state for an existing one. Existing databases are
// never migrated: an older schema yields StateUpgradeFailed, a newer one
// StateDowngradeFailed, each with a *SchemaVersionError.
func checkSchema(db *sql.DB, fsys fs.FS, table string) (State, error) {
	ctx := context.Background()

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return StateUnopened, fmt.Errorf("load migrations: %w", err)
	}

	sources := provider.ListSources()
	if len(sources) == 0 {
		return StateUnopened, fmt.Errorf("no migrations for %s", table)
	}
	expected := sources[len(sources)-1].Version

	found, err := provider.GetDBVersion(ctx)
	if err != nil {
		return StateUnopened, fmt.Errorf("read schema version: %w", err)
	}

	switch {
	case found == 0:
		if _, err := provider.Up(ctx); err != nil {
			return StateUnopened, fmt.Errorf("create schema: %w", err)
		}
		return StateActive, nil
	case found == expected:
		return StateActive, nil
	case found < expected:
		return StateUpgradeFailed, &SchemaVersionError{Table: table, Found: found, Expected: expected}
	default:
		return StateDowngradeFailed, &SchemaVersionError{Table: table, Found: found, Expected: expected}
	}
}
