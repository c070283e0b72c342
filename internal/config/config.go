package config

import (
	"os"
	"strconv"
	"time"
)

const (
	// Pagination
	DefaultPageSize = 10
	MessagePageSize = 25

	// CursorTimeLayout is the exact format inquiry message cursors must use.
	CursorTimeLayout = "2006-01-02T15:04:05.000000Z"

	// Auth
	TokenTTL  = 72 * time.Hour
	JWTIssuer = "hooptalk-service"
)

// Config carries the process-level settings read from the environment.
type Config struct {
	DatabaseDSN string
	RedisAddr   string
	RedisDB     int
	JWTSecret   string
	HTTPAddr    string
}

// Load reads configuration from the environment. Callers are expected to
// have loaded .env (godotenv) beforehand.
func Load() Config {
	return Config{
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=user password=password dbname=hooptalk port=5432 sslmode=disable"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
