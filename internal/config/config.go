package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port        string
	Environment string

	// Storage
	DatabaseDriver string // memory, postgres or sqlite
	DatabaseURL    string
	RedisURL       string // empty disables Redis
	SeedFile       string

	// Attempt engine
	MaxAttemptsPerExam int
	SessionTTL         time.Duration
	QuestionCacheTTL   time.Duration

	CORSAllowedOrigins []string
	// StaffUserIDs may import questions and export results. Empty denies everyone.
	StaffUserIDs []string

	Casdoor CasdoorConfig
	Events  EventConfig
}

// CasdoorConfig holds the Casdoor application credentials. When Endpoint is
// empty requests are authenticated from the X-User-ID header instead.
type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

func (c CasdoorConfig) Enabled() bool {
	return c.Endpoint != ""
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DatabaseDriver: strings.ToLower(getEnv("DATABASE_DRIVER", DriverMemory)),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisURL:       getEnv("REDIS_URL", ""),
		SeedFile:       getEnv("SEED_FILE", ""),

		MaxAttemptsPerExam: getEnvInt("MAX_ATTEMPTS_PER_EXAM", 0),
		SessionTTL:         getEnvDuration("SESSION_TTL", 3*time.Hour),
		QuestionCacheTTL:   getEnvDuration("QUESTION_CACHE_TTL", 10*time.Minute),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		StaffUserIDs:       splitList(getEnv("STAFF_USER_IDS", "")),

		Casdoor: CasdoorConfig{
			Endpoint:         getEnv("CASDOOR_ENDPOINT", ""),
			ClientID:         getEnv("CASDOOR_CLIENT_ID", ""),
			ClientSecret:     getEnv("CASDOOR_CLIENT_SECRET", ""),
			Certificate:      getEnv("CASDOOR_CERTIFICATE", ""),
			OrganizationName: getEnv("CASDOOR_ORGANIZATION", ""),
			ApplicationName:  getEnv("CASDOOR_APPLICATION", ""),
		},

		Events: LoadEventConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverMemory:
	case DriverPostgres, DriverSQLite:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for driver %q", c.DatabaseDriver)
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	if c.MaxAttemptsPerExam < 0 {
		return fmt.Errorf("MAX_ATTEMPTS_PER_EXAM must not be negative")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
