package model

import (
	"fmt"
	"time"
)

// Admin is the principal allowed to change the menu.
type Admin struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	TokenID      *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MinPasswordLength is the shortest password accepted for an admin.
const MinPasswordLength = 8

// ValidatePassword checks that a password is long enough.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}
