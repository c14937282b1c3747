// Package config reads server settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration values.
type Config struct {
	DBPath    string
	Addr      string
	AdminUser string
	LogPath   string
	// JWTSecret overrides the secret persisted in the database when set.
	JWTSecret         string
	PhoneRegion       string
	LowStockThreshold int
}

// Load reads .env files (default ".env") if present, then the ZALOGA_*
// environment variables. Variables already set in the environment win over
// .env entries.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := Config{
		DBPath:      getEnv("ZALOGA_DB", "zaloga.sqlite3"),
		Addr:        getEnv("ZALOGA_ADDR", ":8080"),
		AdminUser:   getEnv("ZALOGA_ADMIN", "Admin"),
		LogPath:     os.Getenv("ZALOGA_LOG"),
		JWTSecret:   os.Getenv("ZALOGA_JWT_SECRET"),
		PhoneRegion: os.Getenv("ZALOGA_PHONE_REGION"),
	}

	threshold := getEnv("ZALOGA_LOW_STOCK_THRESHOLD", "2")
	n, err := strconv.Atoi(threshold)
	if err != nil || n <= 0 {
		slog.Warn("invalid low stock threshold, using default", "value", threshold)
		n = 2
	}
	cfg.LowStockThreshold = n

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
