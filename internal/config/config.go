package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "dev-secret-change-in-production"

// Hash algorithm names accepted by HASH_ALGORITHM.
const (
	HashBcrypt   = "bcrypt"
	HashArgon2id = "argon2id"
)

var ErrDefaultSecretInProduction = errors.New("JWT_SECRET must be set in production environment")

// Config is built once at startup and passed by value to the components that need it.
type Config struct {
	Port     string
	Env      string
	LogLevel slog.Level

	DatabaseDSN    string
	MigrateOnStart bool

	JWTSecret   string
	JWTExpiry   time.Duration
	TokenHeader string

	HashAlgorithm     string
	BcryptCost        int
	PasswordMinLength int

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads the configuration from environment variables, falling back to development defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:              getEnv("PORT", "5000"),
		Env:               getEnv("ENV", "development"),
		LogLevel:          parseLevel(getEnv("LOG_LEVEL", "info")),
		DatabaseDSN:       getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/devconnector?parseTime=true"),
		MigrateOnStart:    getBoolEnv("MIGRATE_ON_START", true),
		JWTSecret:         getEnv("JWT_SECRET", defaultJWTSecret),
		JWTExpiry:         getDurationEnv("JWT_EXPIRY", time.Hour),
		TokenHeader:       getEnv("TOKEN_HEADER", "x-auth-token"),
		HashAlgorithm:     strings.ToLower(getEnv("HASH_ALGORITHM", HashBcrypt)),
		BcryptCost:        getIntEnv("BCRYPT_COST", 10),
		PasswordMinLength: getIntEnv("PASSWORD_MIN_LENGTH", 6),
		RateLimitRPS:      getFloatEnv("RATE_LIMIT_RPS", 5),
		RateLimitBurst:    getIntEnv("RATE_LIMIT_BURST", 10),
	}

	if cfg.IsProduction() && cfg.JWTSecret == defaultJWTSecret {
		return Config{}, ErrDefaultSecretInProduction
	}
	if cfg.HashAlgorithm != HashBcrypt && cfg.HashAlgorithm != HashArgon2id {
		return Config{}, fmt.Errorf("unsupported HASH_ALGORITHM %q", cfg.HashAlgorithm)
	}
	if cfg.JWTExpiry <= 0 {
		return Config{}, fmt.Errorf("JWT_EXPIRY must be positive, got %s", cfg.JWTExpiry)
	}
	if cfg.PasswordMinLength < 1 {
		return Config{}, fmt.Errorf("PASSWORD_MIN_LENGTH must be at least 1, got %d", cfg.PasswordMinLength)
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with ENV=production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		slog.Warn("ignoring malformed integer setting", "key", key, "value", v)
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		slog.Warn("ignoring malformed float setting", "key", key, "value", v)
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		slog.Warn("ignoring malformed boolean setting", "key", key, "value", v)
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		slog.Warn("ignoring malformed duration setting", "key", key, "value", v)
	}
	return fallback
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
