package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erazemk/sladica/internal/auth"
	"github.com/erazemk/sladica/internal/db"
	"github.com/erazemk/sladica/internal/store"
)

func TestLevelRouter(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := slog.New(&levelRouter{
		stdout: slog.NewTextHandler(&stdout, nil),
		stderr: slog.NewTextHandler(&stderr, nil),
	}).With("component", "test")

	logger.Debug("hidden")
	logger.Info("to stdout")
	logger.Warn("also stdout")
	logger.Error("to stderr")

	if strings.Contains(stdout.String(), "hidden") || strings.Contains(stderr.String(), "hidden") {
		t.Error("debug record should be dropped")
	}
	if !strings.Contains(stdout.String(), "to stdout") || !strings.Contains(stdout.String(), "also stdout") {
		t.Errorf("stdout = %q", stdout.String())
	}
	if strings.Contains(stdout.String(), "to stderr") {
		t.Error("error record written to stdout")
	}
	if !strings.Contains(stderr.String(), "to stderr") {
		t.Errorf("stderr = %q", stderr.String())
	}
	if !strings.Contains(stderr.String(), "component=test") {
		t.Error("attributes not carried to stderr handler")
	}
}

func TestSetupLoggerFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "sladica.log")
	cleanup, err := setupLogger(path)
	if err != nil {
		t.Fatalf("setupLogger: %v", err)
	}
	slog.Info("written to file", "n", 1)
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file = %q", data)
	}
}

func TestSetupLoggerBadPath(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	if _, err := setupLogger(filepath.Join(t.TempDir(), "missing", "x.log")); err == nil {
		t.Fatal("expected error for unwritable log path")
	}
}

func TestInitDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sladica.sqlite3")

	password, err := initDatabase(path, "Owner", "owner@example.com", "")
	if err != nil {
		t.Fatalf("initDatabase: %v", err)
	}
	if len(password) != 16 {
		t.Errorf("generated password length = %d, want 16", len(password))
	}

	database, err := db.Open(path)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer database.Close()

	admin, err := store.GetAdminByEmail(context.Background(), database, "owner@example.com")
	if err != nil {
		t.Fatalf("GetAdminByEmail: %v", err)
	}
	if admin == nil {
		t.Fatal("admin not created")
	}
	if admin.Name != "Owner" {
		t.Errorf("Name = %q, want Owner", admin.Name)
	}
	if !auth.CheckPassword(admin.PasswordHash, password) {
		t.Error("printed password does not match stored hash")
	}
}

func TestInitDatabaseGivenPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sladica.sqlite3")

	password, err := initDatabase(path, "Owner", "owner@example.com", "correct horse")
	if err != nil {
		t.Fatalf("initDatabase: %v", err)
	}
	if password != "correct horse" {
		t.Errorf("password = %q, want the configured one", password)
	}
}

func TestInitDatabaseShortPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sladica.sqlite3")

	if _, err := initDatabase(path, "Owner", "owner@example.com", "short"); err == nil {
		t.Fatal("expected error for short password")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("database file should be removed after a failed init")
	}
}

func TestNewPassword(t *testing.T) {
	password, hash, err := newPassword("")
	if err != nil {
		t.Fatalf("newPassword: %v", err)
	}
	if !auth.CheckPassword(hash, password) {
		t.Error("hash does not match generated password")
	}

	a, _, _ := newPassword("")
	b, _, _ := newPassword("")
	if a == b {
		t.Error("generated passwords should differ")
	}
}
