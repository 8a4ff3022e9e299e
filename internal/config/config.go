// Package config provides application configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DocstoreSQL   = "sql"
	DocstoreMongo = "mongo"
)

// Config holds all application configuration outside the LLM provider,
// which is read by llm.ConfigFromEnv.
type Config struct {
	Env      string
	Port     string
	LogLevel string

	DBDriver string
	DBPath   string // DSN or SQLite file; empty means the default data dir

	Docstore   string
	MongoURI   string
	MongoDB    string
	RedisAddr  string
	JWTSecret  string
	TokenTTL   time.Duration
	CORSOrigin []string

	Email EmailConfig
}

// EmailConfig controls summary delivery.
type EmailConfig struct {
	From                 string
	FromName             string
	AWSRegion            string
	NotifySolutionViewed bool
}

// LoadDotEnv loads a .env file from the working directory if one exists.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Env:      strings.ToLower(getEnv("APP_ENV", EnvDevelopment)),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBDriver: getEnv("MATHMENTOR_DB_DRIVER", "sqlite"),
		DBPath:   getEnv("MATHMENTOR_DB", ""),

		Docstore:   strings.ToLower(getEnv("MATHMENTOR_DOCSTORE", DocstoreSQL)),
		MongoURI:   getEnv("MATHMENTOR_MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:    getEnv("MATHMENTOR_MONGO_DB", "mathmentor"),
		RedisAddr:  getEnv("MATHMENTOR_REDIS_ADDR", ""),
		JWTSecret:  getEnv("MATHMENTOR_JWT_SECRET", ""),
		TokenTTL:   getEnvDuration("MATHMENTOR_TOKEN_TTL", 24*time.Hour),
		CORSOrigin: getEnvList("MATHMENTOR_CORS_ORIGINS", []string{"*"}),

		Email: EmailConfig{
			From:                 getEnv("MATHMENTOR_EMAIL_FROM", ""),
			FromName:             getEnv("MATHMENTOR_EMAIL_FROM_NAME", "MathMentorAI"),
			AWSRegion:            getEnv("MATHMENTOR_AWS_REGION", getEnv("AWS_REGION", "us-east-1")),
			NotifySolutionViewed: getEnvBool("MATHMENTOR_NOTIFY_SOLUTION_VIEWED", false),
		},
	}

	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		cfg.JWTSecret = "mathmentor-dev-secret"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return fmt.Errorf("APP_ENV must be %q or %q", EnvDevelopment, EnvProduction)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("MATHMENTOR_JWT_SECRET is required in production")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("MATHMENTOR_TOKEN_TTL must be > 0")
	}
	switch c.Docstore {
	case DocstoreSQL:
	case DocstoreMongo:
		if c.MongoURI == "" || c.MongoDB == "" {
			return fmt.Errorf("MATHMENTOR_MONGO_URI and MATHMENTOR_MONGO_DB are required for the mongo docstore")
		}
	default:
		return fmt.Errorf("MATHMENTOR_DOCSTORE must be %q or %q", DocstoreSQL, DocstoreMongo)
	}
	return nil
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ParseLogLevel maps a LOG_LEVEL value to a slog level name accepted by
// slog.Level.UnmarshalText; unknown values fall back to INFO.
func ParseLogLevel(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return "DEBUG"
	case "warn", "warning":
		return "WARN"
	case "error":
		return "ERROR"
	default:
		return "INFO"
	}
}

