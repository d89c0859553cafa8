package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "gourmetto-dev-secret"

type Config struct {
	Addr               string
	Environment        string
	DatabaseURL        string
	JWTSecret          string
	RedisURL           string
	LogLevel           string
	SeedAdminName      string
	SeedAdminEmail     string
	SeedAdminPassword  string
	RunMigrations      bool
	RunSeed            bool
	MaxBodyBytes       int64
	RateLimitPerSecond float64
	RateLimitBurst     int
	NotifyDismissAfter time.Duration
	ProbeInterval      time.Duration
	ProbeTimeout       time.Duration
	SessionTTL         time.Duration
	SessionSweep       time.Duration
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Addr:               getEnv("APP_ADDR", ":8080"),
		Environment:        getEnv("APP_ENV", "development"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		JWTSecret:          getEnv("JWT_SECRET", devJWTSecret),
		RedisURL:           getEnv("REDIS_URL", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		SeedAdminName:      getEnv("SEED_ADMIN_NAME", "Administrador"),
		SeedAdminEmail:     getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword:  getEnv("SEED_ADMIN_PASSWORD", ""),
		RunMigrations:      getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:            getEnvBool("RUN_SEED", true),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerSecond: getEnvFloat("RATE_LIMIT_PER_SECOND", 10),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 20),
		NotifyDismissAfter: getEnvDuration("NOTIFY_DISMISS_AFTER", 5*time.Second),
		ProbeInterval:      getEnvDuration("PROBE_INTERVAL", 30*time.Second),
		ProbeTimeout:       getEnvDuration("PROBE_TIMEOUT", 5*time.Second),
		SessionTTL:         getEnvDuration("SESSION_TTL", 12*time.Hour),
		SessionSweep:       getEnvDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" || c.JWTSecret == devJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be changed or RUN_SEED disabled in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerSecond <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_SECOND and RATE_LIMIT_BURST must be positive")
	}
	if c.NotifyDismissAfter <= 0 {
		return fmt.Errorf("NOTIFY_DISMISS_AFTER must be positive")
	}
	if c.ProbeInterval < 0 {
		return fmt.Errorf("PROBE_INTERVAL must not be negative")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// ClientConfig configures the rhctl operator CLI.
type ClientConfig struct {
	APIURL      string
	SessionFile string
}

func LoadClient() ClientConfig {
	_ = godotenv.Load()
	return ClientConfig{
		APIURL:      strings.TrimRight(getEnv("RH_API_URL", "http://localhost:8080"), "/"),
		SessionFile: getEnv("RH_SESSION_FILE", defaultSessionFile()),
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".rh_session.json"
	}
	return filepath.Join(home, ".gourmetto", "session.json")
}
