// Package config reads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server settings.
type Config struct {
	Addr       string
	DBPath     string
	StorageDir string
	LogFile    string

	JWTSecret   string
	TokenTTL    time.Duration
	UploadMaxKB int64
	CORSOrigin  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// Load reads a .env file from the working directory, if one exists, and
// then builds a Config from the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Addr:          envStr("APP_ADDR", ":8080"),
		DBPath:        envStr("DB_PATH", "sladica.sqlite3"),
		StorageDir:    envStr("STORAGE_DIR", "storage"),
		LogFile:       os.Getenv("LOG_FILE"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		CORSOrigin:    envStr("CORS_ORIGIN", "*"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		AdminName:     envStr("ADMIN_NAME", "Super Admin"),
		AdminEmail:    envStr("ADMIN_EMAIL", "patecream@admin.com"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	var err error
	if cfg.TokenTTL, err = envDur("TOKEN_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = envDur("CACHE_TTL", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.UploadMaxKB, err = envInt("UPLOAD_MAX_KB", 2048); err != nil {
		return nil, err
	}
	db, err := envInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	cfg.RedisDB = int(db)

	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive")
	}
	if cfg.UploadMaxKB <= 0 {
		return nil, fmt.Errorf("UPLOAD_MAX_KB must be positive")
	}
	return cfg, nil
}

// UploadMaxBytes returns the upload limit in bytes.
func (c *Config) UploadMaxBytes() int64 {
	return c.UploadMaxKB << 10
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func envDur(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
