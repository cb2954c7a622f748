// Command sladica serves the dessert menu API.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/sladica/internal/config"
)

var (
	cfg *config.Config

	// Global flags
	dbPath     string
	addr       string
	storageDir string
	logPath    string

	closeLog func()
)

var rootCmd = &cobra.Command{
	Use:   "sladica",
	Short: "Dessert menu admin API",
	Long: `Sladica serves the menu of a dessert shop: categories, items, menu
constants and notifications. Reads are public; changes require an admin
login.

Settings are read from the environment and from a .env file in the working
directory. Flags override the matching variables.

Run without a command to start the server.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeLog != nil {
			closeLog()
		}
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "SQLite database path (default from DB_PATH or sladica.sqlite3)")
	rootCmd.PersistentFlags().StringVarP(&addr, "addr", "a", "", "listen address (default from APP_ADDR or :8080)")
	rootCmd.PersistentFlags().StringVarP(&storageDir, "storage", "s", "", "image storage directory (default from STORAGE_DIR or storage)")
	rootCmd.PersistentFlags().StringVarP(&logPath, "log", "l", "", "log file path (default from LOG_FILE, stdout/stderr only)")
}

// setup loads configuration, applies flag overrides and configures logging.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = dbPath
	}
	if flags.Changed("addr") {
		cfg.Addr = addr
	}
	if flags.Changed("storage") {
		cfg.StorageDir = storageDir
	}
	if flags.Changed("log") {
		cfg.LogFile = logPath
	}

	closeLog, err = setupLogger(cfg.LogFile)
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If logPath is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}
