package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/sladica/internal/model"
)

const adminColumns = `id, name, email, password_hash, token_id, created_at, updated_at`

func scanAdmin(row interface{ Scan(...any) error }, a *model.Admin) error {
	return row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.TokenID, &a.CreatedAt, &a.UpdatedAt)
}

// CreateAdmin creates a new admin. It returns ErrConflict when the email is
// already registered.
func CreateAdmin(ctx context.Context, db *sql.DB, name, email, passwordHash string) (*model.Admin, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO admin_users (name, email, password_hash) VALUES (?, ?, ?)`,
		name, email, passwordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("creating admin: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting admin id: %w", err)
	}

	return GetAdmin(ctx, db, id)
}

// GetAdmin returns an admin by ID.
func GetAdmin(ctx context.Context, db *sql.DB, id int64) (*model.Admin, error) {
	a := &model.Admin{}
	err := scanAdmin(db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admin_users WHERE id = ?`, id,
	), a)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting admin: %w", err)
	}
	return a, nil
}

// GetAdminByEmail returns an admin by email.
func GetAdminByEmail(ctx context.Context, db *sql.DB, email string) (*model.Admin, error) {
	a := &model.Admin{}
	err := scanAdmin(db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admin_users WHERE email = ?`, email,
	), a)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting admin by email: %w", err)
	}
	return a, nil
}

// SetAdminToken records tokenID as the admin's only valid session. A nil
// tokenID ends the session.
func SetAdminToken(ctx context.Context, db *sql.DB, id int64, tokenID *string) error {
	var p patch
	p.set("token_id", tokenID)
	return p.exec(ctx, db, "admin_users", "id = ?", id)
}

// UpdateAdminPassword updates an admin's password hash.
func UpdateAdminPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	var p patch
	p.set("password_hash", passwordHash)
	return p.exec(ctx, db, "admin_users", "id = ?", id)
}
