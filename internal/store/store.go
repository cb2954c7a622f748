// Package store persists menu records in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrNotFound is returned when an update or delete matches no row.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write would duplicate a unique key.
var ErrConflict = errors.New("conflict")

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

// Lookup answers foreign-key existence checks.
type Lookup struct {
	DB *sql.DB
}

// lookupTables lists the tables Lookup may query.
var lookupTables = map[string]bool{
	"categories": true,
	"items":      true,
}

// Exists reports whether a row with the given id exists in table.
func (l Lookup) Exists(ctx context.Context, table string, id int64) (bool, error) {
	if !lookupTables[table] {
		return false, fmt.Errorf("unknown lookup table %q", table)
	}
	var exists bool
	err := l.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = ?)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking %s %d: %w", table, id, err)
	}
	return exists, nil
}

// patch collects the columns of a partial update.
type patch struct {
	cols []string
	args []any
}

func (p *patch) set(col string, v any) {
	p.cols = append(p.cols, col+" = ?")
	p.args = append(p.args, v)
}

// exec applies the patch to the row matching where. It returns ErrNotFound
// when no row matched. An empty patch still bumps updated_at.
func (p *patch) exec(ctx context.Context, db *sql.DB, table, where string, key any) error {
	cols := append(p.cols, "updated_at = CURRENT_TIMESTAMP")
	args := append(p.args, key)

	result, err := db.ExecContext(ctx,
		`UPDATE `+table+` SET `+strings.Join(cols, ", ")+` WHERE `+where, args...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("updating %s: %w", table, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating %s: %w", table, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// deleteRow hard-deletes the row matching where, or returns ErrNotFound.
func deleteRow(ctx context.Context, db *sql.DB, table, where string, key any) error {
	result, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE `+where, key)
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// nullDecimal converts a patch value into something the driver can store.
func nullDecimal(n sql.Null[decimal.Decimal]) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: n.V, Valid: n.Valid}
}
