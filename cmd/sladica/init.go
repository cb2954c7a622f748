package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/sladica/internal/auth"
	"github.com/erazemk/sladica/internal/db"
	"github.com/erazemk/sladica/internal/model"
	"github.com/erazemk/sladica/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and the admin account",
	Long: `Create a new database with the schema and the admin account.

The admin is named by ADMIN_NAME and ADMIN_EMAIL. The password is taken from
ADMIN_PASSWORD, or generated and printed once.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfg.DBPath); err == nil {
			return fmt.Errorf("database %s already exists", cfg.DBPath)
		}
		password, err := initDatabase(cfg.DBPath, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return err
		}
		printInitResult(cfg.DBPath, cfg.AdminEmail, password)
		return nil
	},
}

var passwordCmd = &cobra.Command{
	Use:   "password <email>",
	Short: "Reset an admin password",
	Long: `Set a new password for the admin with the given email and end their
session. The password is taken from ADMIN_PASSWORD, or generated and printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		ctx := cmd.Context()
		admin, err := store.GetAdminByEmail(ctx, database, args[0])
		if err != nil {
			return err
		}
		if admin == nil {
			return fmt.Errorf("no admin with email %s", args[0])
		}

		password, hash, err := newPassword(cfg.AdminPassword)
		if err != nil {
			return err
		}
		if err := store.UpdateAdminPassword(ctx, database, admin.ID, hash); err != nil {
			return err
		}
		if err := store.SetAdminToken(ctx, database, admin.ID, nil); err != nil {
			return err
		}

		fmt.Printf("Password for %s updated.\n", admin.Email)
		if cfg.AdminPassword == "" {
			fmt.Printf("  Password: %s\n", password)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(passwordCmd)
}

// newPassword returns password, or a generated one when empty, with its hash.
func newPassword(password string) (string, string, error) {
	if password == "" {
		var err error
		if password, err = auth.GeneratePassword(16); err != nil {
			return "", "", fmt.Errorf("generating password: %w", err)
		}
	}
	if err := model.ValidatePassword(password); err != nil {
		return "", "", err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", "", fmt.Errorf("hashing password: %w", err)
	}
	return password, hash, nil
}

// initDatabase creates a new database, ensures the schema, and creates the
// admin account. It returns the admin password.
func initDatabase(path, name, email, password string) (string, error) {
	database, err := db.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening database: %w", err)
	}

	fail := func(err error) (string, error) {
		database.Close()
		os.Remove(path)
		return "", err
	}

	if err := db.EnsureSchema(database); err != nil {
		return fail(fmt.Errorf("ensuring schema: %w", err))
	}

	password, hash, err := newPassword(password)
	if err != nil {
		return fail(err)
	}

	if _, err := store.CreateAdmin(context.Background(), database, name, email, hash); err != nil {
		return fail(fmt.Errorf("creating admin: %w", err))
	}

	return password, database.Close()
}

// printInitResult prints the database initialization result to stdout.
func printInitResult(dbPath, email, password string) {
	fmt.Printf("Database created: %s\n", dbPath)
	fmt.Println("Schema initialized.")
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Email:    %s\n", email)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println("Reset it with: sladica password <email>")
}
