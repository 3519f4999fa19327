package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const devSecret = "dev-secret-change-in-production"

type Config struct {
	Port        string
	Env         string
	DatabaseDSN string
	JWTSecret   string
	JWTExpiry   time.Duration
	WordsFile   string
	RateRPS     float64
	RateBurst   int
}

func Load() Config {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		DatabaseDSN: getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/passgen?parseTime=true"),
		JWTSecret:   getEnv("JWT_SECRET", devSecret),
		JWTExpiry:   getDuration("JWT_EXPIRY", 24*time.Hour),
		WordsFile:   getEnv("WORDS_FILE", filepath.Join(AppDir(), WordsFileName)),
		RateRPS:     getFloat("RATE_LIMIT_RPS", 5),
		RateBurst:   getInt("RATE_LIMIT_BURST", 10),
	}

	if cfg.Env == "production" && cfg.JWTSecret == devSecret {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		slog.Debug("using default duration", "key", key, "default", fallback)
		return fallback
	}
	return v
}
