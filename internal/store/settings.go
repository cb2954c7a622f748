package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
)

// tokenSecretKey is the settings key holding the token signing secret.
const tokenSecretKey = "token_secret"

// GetTokenSecret returns the token signing secret, generating and storing
// one on first use. INSERT OR IGNORE followed by a re-read keeps concurrent
// first starts on the same secret.
func GetTokenSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token secret: %w", err)
	}

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		tokenSecretKey, hex.EncodeToString(buf),
	)
	if err != nil {
		return "", fmt.Errorf("storing token secret: %w", err)
	}

	var secret string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, tokenSecretKey,
	).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("querying token secret: %w", err)
	}
	return secret, nil
}
