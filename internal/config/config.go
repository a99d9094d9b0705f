// Package config provides configuration for the reference server (from
// environment variables) and for the CLI (YAML file plus environment).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all server configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig selects and configures the database driver.
type DatabaseConfig struct {
	// Driver is "sqlite" (default) or "postgres".
	Driver string
	// SQLitePath is the database file; ":memory:" for a throwaway database.
	SQLitePath string
	// DSN, when set, is used verbatim for postgres.
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Debug turns on gorm SQL logging.
	Debug bool
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev        bool
	Migrations bool
	JWTSecret  string
	TokenTTL   time.Duration
	// AppURL is the front-end base URL encoded in QR links.
	AppURL string
	// VerifierTTL is how long a "user exists" check is cached.
	VerifierTTL time.Duration
	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string
}

// PostgresDSN returns the connection string in key=value format.
func (d DatabaseConfig) PostgresDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "sqlite"),
			SQLitePath: getEnv("SQLITE_PATH", "qrsona.db"),
			DSN:        getEnv("DATABASE_DSN", ""),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "qrsona"),
			Password:   getEnv("DB_PASSWORD", "qrsona"),
			DBName:     getEnv("DB_NAME", "qrsona"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			Debug:      getEnvBool("DB_DEBUG", false),
		},
		App: AppConfig{
			Dev:         getEnvBool("DEV", true),
			Migrations:  getEnvBool("MIGRATIONS", true),
			JWTSecret:   getEnv("JWT_SECRET", "devjwtsecret"),
			TokenTTL:    getEnvDuration("TOKEN_TTL", 24*time.Hour),
			AppURL:      getEnv("APP_URL", "http://localhost:3000"),
			VerifierTTL: getEnvDuration("VERIFIER_CACHE_TTL", 5*time.Minute),
			CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvFloat returns the float value of an environment variable or a default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

// getEnvDuration parses values like "90s" or "24h".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated value, dropping empty items.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
