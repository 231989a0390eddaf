// ABOUTME: Generic SQLite-backed repository engine shared by every record kind.
// ABOUTME: Handles lifecycle, transactions, pagination, upsert and integrity checks.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/healthlog/internal/models"
)

const (
	dateLayout = models.DayLayout
	timeLayout = "15:04:05"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// schema describes how one record kind maps onto its table. The generic
// Table derives its keyed statements from it; each specialization supplies
// its own listing queries.
type schema[R any, K comparable] struct {
	kind       string // human readable, e.g. "blood pressure"
	table      string
	columns    []string
	keyColumn  string
	migrations string

	// listDescending takes LIMIT and OFFSET arguments.
	listDescending string
	// forDay takes the measurement date argument.
	forDay string

	keyOf     func(r *R) K
	keyArg    func(key K) any
	keyIsNull func(key K) bool
	scan      func(row scanner) (*R, error)
	values    func(r *R) []any
	validate  func(r *R) []FieldError

	// beforeUpsert runs inside the upsert transaction, before the insert.
	beforeUpsert func(tx *sql.Tx, r *R) error
}

type statements struct {
	count     string
	selectKey string
	insert    string
	update    string
	deleteKey string
	deleteAll string
}

func (s *schema[R, K]) statements() statements {
	cols := strings.Join(s.columns, ", ")
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(s.columns)), ", ")
	assignments := make([]string, len(s.columns))
	for i, c := range s.columns {
		assignments[i] = c + " = ?"
	}

	return statements{
		count:     "SELECT COUNT(*) FROM " + s.table,
		selectKey: fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? LIMIT 2", cols, s.table, s.keyColumn),
		insert:    fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", s.table, cols, placeholders),
		update:    fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", s.table, strings.Join(assignments, ", "), s.keyColumn),
		deleteKey: fmt.Sprintf("DELETE FROM %s WHERE %s = ?", s.table, s.keyColumn),
		deleteAll: "DELETE FROM " + s.table,
	}
}

// Table is the generic repository implementation. It owns one SQLite handle,
// opened on first use and released exactly once by Close.
type Table[R any, K comparable] struct {
	schema schema[R, K]
	stmts  statements
	path   string
	fsys   fs.FS
	logger *log.Logger

	mu    sync.Mutex
	db    *sql.DB
	state State
	err   error // terminal schema error
}

func newTable[R any, K comparable](s schema[R, K], path string, opts []Option) *Table[R, K] {
	o := applyOptions(opts)
	fsys := o.migrations
	if fsys == nil {
		fsys = migrationsFor(s.migrations)
	}
	return &Table[R, K]{
		schema: s,
		stmts:  s.statements(),
		path:   path,
		fsys:   fsys,
		logger: o.logger.With("table", s.table),
		state:  StateUnopened,
	}
}

// Path returns the database file backing the table.
func (t *Table[R, K]) Path() string {
	return t.path
}

// State returns the current lifecycle state.
func (t *Table[R, K]) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Close releases the database handle. Calling Close again is a no-op.
func (t *Table[R, K]) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateDisposed {
		return nil
	}
	t.state = StateDisposed
	if t.db == nil {
		return nil
	}

	err := t.db.Close()
	t.db = nil
	if err != nil {
		t.logger.Error("close database", "err", err)
		return fmt.Errorf("close %s: %w", t.schema.table, err)
	}
	return nil
}

// use runs fn against the open handle after checking the lifecycle state.
// The first call opens the database and verifies its schema version.
func (t *Table[R, K]) use(fn func(db *sql.DB) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case StateDisposed:
		return ErrDisposed
	case StateUpgradeFailed, StateDowngradeFailed:
		return t.err
	case StateUnopened:
		if err := t.open(); err != nil {
			return err
		}
	}
	return fn(t.db)
}

func (t *Table[R, K]) open() error {
	db, err := openDB(t.path)
	if err != nil {
		return &OpError{Op: "open", Table: t.schema.table, Err: err}
	}

	state, err := checkSchema(db, t.fsys, t.schema.table)
	if err != nil {
		_ = db.Close()
		var versionErr *SchemaVersionError
		if errors.As(err, &versionErr) {
			t.state = state
			t.err = err
			t.logger.Error("schema version mismatch", "found", versionErr.Found, "expected", versionErr.Expected)
			return err
		}
		return &OpError{Op: "open", Table: t.schema.table, Err: err}
	}

	t.db = db
	t.state = state
	t.logger.Debug("opened", "path", t.path)
	return nil
}

func (t *Table[R, K]) opErr(op string, key any, err error) error {
	if err == nil {
		return nil
	}
	e := &OpError{Op: op, Table: t.schema.table, Err: err}
	if key != nil {
		e.Key = fmt.Sprint(key)
	}
	return e
}

func (t *Table[R, K]) requireKey(key K) error {
	if t.schema.keyIsNull(key) {
		return fmt.Errorf("%w: %s key is required", ErrInvalidArgument, t.schema.kind)
	}
	return nil
}

// Count returns the number of rows in the table.
func (t *Table[R, K]) Count() (int, error) {
	var n int
	err := t.use(func(db *sql.DB) error {
		rows, err := db.Query(t.stmts.count)
		if err != nil {
			return t.opErr("count", nil, err)
		}
		defer func() { _ = rows.Close() }()

		cols, err := rows.Columns()
		if err != nil {
			return t.opErr("count", nil, err)
		}
		if len(cols) != 1 {
			return t.opErr("count", nil, fmt.Errorf("%w: count returned %d columns", ErrUnexpected, len(cols)))
		}
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return t.opErr("count", nil, err)
			}
			return t.opErr("count", nil, fmt.Errorf("%w: count returned no rows", ErrUnexpected))
		}
		if err := rows.Scan(&n); err != nil {
			return t.opErr("count", nil, err)
		}
		if rows.Next() {
			return t.opErr("count", nil, fmt.Errorf("%w: count returned more than one row", ErrUnexpected))
		}
		return t.opErr("count", nil, rows.Err())
	})
	return n, err
}

// Get returns the record stored under key.
func (t *Table[R, K]) Get(key K) (*R, error) {
	if err := t.requireKey(key); err != nil {
		return nil, err
	}

	var record *R
	err := t.use(func(db *sql.DB) error {
		records, err := t.query(db, t.stmts.selectKey, t.schema.keyArg(key))
		if err != nil {
			return t.opErr("get", key, err)
		}
		switch len(records) {
		case 0:
			return t.opErr("get", key, ErrNotFound)
		case 1:
			record = records[0]
			return nil
		default:
			return t.opErr("get", key, fmt.Errorf("%w: more than one row matched", ErrIntegrity))
		}
	})
	return record, err
}

// ListDescending returns up to count records, newest first, starting at offset.
func (t *Table[R, K]) ListDescending(offset, count int) ([]*R, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative, got %d", ErrInvalidArgument, offset)
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive, got %d", ErrInvalidArgument, count)
	}

	var records []*R
	err := t.use(func(db *sql.DB) error {
		var err error
		records, err = t.query(db, t.schema.listDescending, count, offset)
		return t.opErr("list", nil, err)
	})
	return records, err
}

// ListForDay returns every record measured on day, newest first.
func (t *Table[R, K]) ListForDay(day models.Day) ([]*R, error) {
	if day.IsZero() {
		return nil, fmt.Errorf("%w: day is required", ErrInvalidArgument)
	}

	var records []*R
	err := t.use(func(db *sql.DB) error {
		var err error
		records, err = t.query(db, t.schema.forDay, day.String())
		return t.opErr("list day", day, err)
	})
	return records, err
}

// CreateOrUpdate validates r and inserts it. When the insert is rejected the
// existing row with the same key is overwritten. Both steps, and the
// specialization's pre-upsert step, commit or roll back together.
func (t *Table[R, K]) CreateOrUpdate(r *R) error {
	if r == nil {
		return fmt.Errorf("%w: %s record is required", ErrInvalidArgument, t.schema.kind)
	}
	if fields := t.schema.validate(r); len(fields) > 0 {
		return &ValidationError{Record: t.schema.kind, Fields: fields}
	}

	key := t.schema.keyOf(r)
	return t.use(func(db *sql.DB) error {
		err := withTx(db, t.logger, func(tx *sql.Tx) error {
			if t.schema.beforeUpsert != nil {
				if err := t.schema.beforeUpsert(tx, r); err != nil {
					return fmt.Errorf("prepare upsert: %w", err)
				}
			}

			values := t.schema.values(r)
			_, insertErr := tx.Exec(t.stmts.insert, values...)
			if insertErr == nil {
				return nil
			}

			updateErr := execOne(tx, t.stmts.update, append(values, t.schema.keyArg(key))...)
			if updateErr == nil {
				t.logger.Debug("updated existing row", "key", key)
				return nil
			}
			return fmt.Errorf("%w: insert: %w; update: %w", ErrUnexpected, insertErr, updateErr)
		})
		return t.opErr("create or update", key, err)
	})
}

// Delete removes the record stored under key. Anything other than exactly
// one affected row rolls the transaction back.
func (t *Table[R, K]) Delete(key K) error {
	if err := t.requireKey(key); err != nil {
		return err
	}

	return t.use(func(db *sql.DB) error {
		err := withTx(db, t.logger, func(tx *sql.Tx) error {
			return execOne(tx, t.stmts.deleteKey, t.schema.keyArg(key))
		})
		return t.opErr("delete", key, err)
	})
}

// DeleteAll removes every record.
func (t *Table[R, K]) DeleteAll() error {
	return t.use(func(db *sql.DB) error {
		err := withTx(db, t.logger, func(tx *sql.Tx) error {
			_, err := tx.Exec(t.stmts.deleteAll)
			return err
		})
		return t.opErr("delete all", nil, err)
	})
}

// query runs a row-returning statement and maps every row. The result set
// is closed before query returns.
func (t *Table[R, K]) query(db *sql.DB, query string, args ...any) ([]*R, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []*R
	for rows.Next() {
		r, err := t.schema.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.schema.table, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// execOne runs a keyed statement that must affect exactly one row.
func execOne(tx *sql.Tx, query string, args ...any) error {
	res, err := tx.Exec(query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	switch {
	case n == 0:
		return ErrNotFound
	case n > 1:
		return fmt.Errorf("%w: %d rows matched", ErrIntegrity, n)
	}
	return nil
}

// splitTimestamp formats t's local wall clock as separate date and time columns.
func splitTimestamp(t time.Time) (string, string) {
	t = t.In(time.Local)
	return t.Format(dateLayout), t.Format(timeLayout)
}

// joinTimestamp parses date and time columns back into a local timestamp.
func joinTimestamp(date, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout+"T"+timeLayout, date+"T"+clock, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse measurement time %sT%s: %w", date, clock, err)
	}
	return t, nil
}
