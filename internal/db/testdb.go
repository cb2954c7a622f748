package db

import (
	"database/sql"
	"testing"
)

// NewTestDB returns an empty in-memory database with the current schema,
// closed when the test ends.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()

	database, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := EnsureSchema(database); err != nil {
		t.Fatalf("applying schema: %v", err)
	}
	return database
}
