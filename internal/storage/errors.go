// ABOUTME: Typed storage errors shared by every record repository.
// ABOUTME: Sentinels for errors.Is plus OpError, ValidationError and SchemaVersionError.
package storage

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidArgument is returned for precondition violations, before any I/O.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrValidation is wrapped by every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a keyed read or delete matches no row.
	ErrNotFound = errors.New("not found")

	// ErrUnexpected is returned when both halves of an upsert fail.
	ErrUnexpected = errors.New("unexpected storage error")

	// ErrIntegrity is returned when a single-key operation matches more than
	// one row. It also matches ErrUnexpected.
	ErrIntegrity = fmt.Errorf("%w: integrity violation", ErrUnexpected)

	// ErrDisposed is returned by every operation after Close.
	ErrDisposed = errors.New("repository disposed")

	// ErrBroken is wrapped by *SchemaVersionError.
	ErrBroken = errors.New("repository broken")
)

// OpError records the operation, table and key of a failed storage call.
type OpError struct {
	Op    string
	Table string
	Key   string
	Err   error
}

func (e *OpError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
	}
	return fmt.Sprintf("%s %s %s: %v", e.Op, e.Table, e.Key, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// FieldError describes one invalid record property.
type FieldError struct {
	Field  string
	Reason string
}

func (f FieldError) String() string {
	return f.Field + " " + f.Reason
}

// ValidationError lists every invalid property of a rejected record.
type ValidationError struct {
	Record string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("invalid %s record: %s", e.Record, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Has reports whether field is among the invalid properties.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// SchemaVersionError reports a database whose schema version differs from
// the one this build knows. No migration between versions exists.
type SchemaVersionError struct {
	Table    string
	Found    int64
	Expected int64
}

func (e *SchemaVersionError) Error() string {
	direction := "upgrade"
	if e.Found > e.Expected {
		direction = "downgrade"
	}
	return fmt.Sprintf("%s: %s schema %s from version %d to %d is not supported",
		ErrBroken, e.Table, direction, e.Found, e.Expected)
}

func (e *SchemaVersionError) Unwrap() error {
	return ErrBroken
}

// violations collects FieldErrors while validating a record.
type violations []FieldError

func (v *violations) check(ok bool, field, reason string) {
	if !ok {
		*v = append(*v, FieldError{Field: field, Reason: reason})
	}
}
