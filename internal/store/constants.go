package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/sladica/internal/model"
)

const constantColumns = `id, key_name, key_value, created_at, updated_at`

func scanConstant(row interface{ Scan(...any) error }, c *model.Constant) error {
	return row.Scan(&c.ID, &c.KeyName, &c.KeyValue, &c.CreatedAt, &c.UpdatedAt)
}

// CreateConstant creates a new constant. It returns ErrConflict when the key
// is already taken.
func CreateConstant(ctx context.Context, db *sql.DB, key string, value *string) (*model.Constant, error) {
	_, err := db.ExecContext(ctx,
		`INSERT INTO menu_constants (key_name, key_value) VALUES (?, ?)`,
		key, value,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("creating constant: %w", err)
	}
	return GetConstant(ctx, db, key)
}

// GetConstant returns a constant by key.
func GetConstant(ctx context.Context, db *sql.DB, key string) (*model.Constant, error) {
	c := &model.Constant{}
	err := scanConstant(db.QueryRowContext(ctx,
		`SELECT `+constantColumns+` FROM menu_constants WHERE key_name = ?`, key,
	), c)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting constant: %w", err)
	}
	return c, nil
}

// ListConstants returns all constants in insertion order.
func ListConstants(ctx context.Context, db *sql.DB) ([]model.Constant, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+constantColumns+` FROM menu_constants ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing constants: %w", err)
	}
	defer rows.Close()

	var constants []model.Constant
	for rows.Next() {
		var c model.Constant
		if err := scanConstant(rows, &c); err != nil {
			return nil, fmt.Errorf("scanning constant: %w", err)
		}
		constants = append(constants, c)
	}
	return constants, rows.Err()
}

// MenuValues returns the value of each key, with nil for keys that are
// missing or unset.
func MenuValues(ctx context.Context, db *sql.DB, keys []string) (map[string]*string, error) {
	constants, err := ListConstants(ctx, db)
	if err != nil {
		return nil, err
	}
	byKey := make(map[string]*string, len(constants))
	for _, c := range constants {
		byKey[c.KeyName] = c.KeyValue
	}

	values := make(map[string]*string, len(keys))
	for _, k := range keys {
		values[k] = byKey[k]
	}
	return values, nil
}

// UpdateConstant sets the value of an existing key. It returns ErrNotFound
// when the key does not exist.
func UpdateConstant(ctx context.Context, db *sql.DB, key string, value *string) error {
	var p patch
	p.set("key_value", value)
	return p.exec(ctx, db, "menu_constants", "key_name = ?", key)
}

// UpdateConstants sets each key in order and returns how many existed.
// Unknown keys are skipped.
func UpdateConstants(ctx context.Context, db *sql.DB, keys []string, values map[string]*string) (int, error) {
	updated := 0
	for _, k := range keys {
		err := UpdateConstant(ctx, db, k, values[k])
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// DeleteConstant deletes a constant by key.
func DeleteConstant(ctx context.Context, db *sql.DB, key string) error {
	return deleteRow(ctx, db, "menu_constants", "key_name = ?", key)
}
