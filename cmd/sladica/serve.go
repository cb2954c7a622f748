package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/erazemk/sladica/internal/api"
	"github.com/erazemk/sladica/internal/cache"
	"github.com/erazemk/sladica/internal/db"
	"github.com/erazemk/sladica/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server. A missing database is created first, together
with the admin account, whose password is printed once.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Check if DB exists, auto-init if not.
	if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
		password, err := initDatabase(cfg.DBPath, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("initializing database: %w", err)
		}
		printInitResult(cfg.DBPath, cfg.AdminEmail, password)
		fmt.Println()
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Ensure schema exists (idempotent).
	if err := db.EnsureSchema(database); err != nil {
		return fmt.Errorf("ensuring database schema: %w", err)
	}
	slog.Info("database ready", "path", cfg.DBPath)

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		// Auto-generated on first run and kept in the database.
		if jwtSecret, err = store.GetTokenSecret(cmd.Context(), database); err != nil {
			return fmt.Errorf("loading token secret: %w", err)
		}
	}

	if err := os.MkdirAll(cfg.StorageDir, 0o755); err != nil {
		return fmt.Errorf("creating storage directory: %w", err)
	}

	var responseCache *cache.Cache
	if cfg.RedisAddr != "" {
		rdb, err := cache.Dial(cmd.Context(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			slog.Warn("response cache disabled", "error", err)
		} else {
			defer rdb.Close()
			responseCache = cache.New(rdb, cfg.CacheTTL)
			slog.Info("response cache enabled", "redis", cfg.RedisAddr, "ttl", cfg.CacheTTL)
		}
	}

	handler := api.LoggingMiddleware(api.NewRouter(api.Options{
		DB:             database,
		JWTSecret:      jwtSecret,
		TokenTTL:       cfg.TokenTTL,
		StorageDir:     cfg.StorageDir,
		UploadMaxBytes: cfg.UploadMaxBytes(),
		Cache:          responseCache,
		CORSOrigin:     cfg.CORSOrigin,
	}))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}
