// ABOUTME: Functional options for constructing record repositories.
// ABOUTME: Lets callers supply the logging sink shared by all tables.
package storage

import (
	"io/fs"

	"github.com/charmbracelet/log"
	"github.com/harperreed/healthlog/internal/logging"
)

// Option configures a repository.
type Option func(*options)

type options struct {
	logger     *log.Logger
	migrations fs.FS
}

// WithLogger sets the logger used for best-effort diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// withMigrations replaces the embedded migrations, for schema version tests.
func withMigrations(fsys fs.FS) Option {
	return func(o *options) {
		o.migrations = fsys
	}
}

func applyOptions(opts []Option) options {
	o := options{logger: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
