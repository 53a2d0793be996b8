package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultSessionSecret is only acceptable outside prod.
const DefaultSessionSecret = "keyboard cat"

// DefaultEnvFile is loaded by LoadEnvFile when no path is given.
const DefaultEnvFile = "config/config.env"

type Config struct {
	Port string

	// Env is "dev" (default) or "prod". When "prod", SESSION_SECRET must be set and not the default.
	Env string

	// DatabaseURL takes precedence over the DB_* parts when set.
	DatabaseURL string

	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int

	SessionSecret string
	// SessionMaxAgeHours is the session cookie lifetime in hours (default 24).
	SessionMaxAgeHours int

	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string

	// AuthRatePerMinute caps /auth requests per client IP (default 10).
	AuthRatePerMinute int

	// MetricsRefreshCron is the cron spec for refreshing the story count gauge.
	MetricsRefreshCron string
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "3003"),
		Env:  getEnv("ENV", "dev"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBName:      getEnv("DB_NAME", "storyshare"),
		DBUser:      getEnv("DB_USER", "storyshare"),
		DBPass:      getEnv("DB_PASS", "storyshare"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		SessionSecret:      getEnv("SESSION_SECRET", DefaultSessionSecret),
		SessionMaxAgeHours: getEnvInt("SESSION_MAX_AGE_HOURS", 24),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleCallbackURL:  getEnv("GOOGLE_CALLBACK_URL", "http://localhost:3003/auth/google/callback"),

		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", "text"),

		AuthRatePerMinute:  getEnvInt("AUTH_RATE_PER_MIN", 10),
		MetricsRefreshCron: getEnv("METRICS_REFRESH_CRON", "@every 1m"),
	}
}

// Validate reports configuration that must not reach production.
func (c Config) Validate() error {
	if c.Env != "prod" {
		return nil
	}
	if c.SessionSecret == "" || c.SessionSecret == DefaultSessionSecret {
		return errors.New("SESSION_SECRET must be set in prod")
	}
	if c.GoogleClientID == "" || c.GoogleClientSecret == "" {
		return errors.New("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set in prod")
	}
	return nil
}

// DSN returns a postgres URL usable by both lib/pq and golang-migrate.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPass),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func (c Config) SessionMaxAge() time.Duration {
	return time.Duration(c.SessionMaxAgeHours) * time.Hour
}

// UseTLS is true when both certificate and key files are configured.
func (c Config) UseTLS() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
