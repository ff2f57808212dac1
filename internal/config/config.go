package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// History source selection. Local keeps the collection in the key-value
// store; server fetches it from the backend scoped by identity.
const (
	HistorySourceLocal  = "local"
	HistorySourceServer = "server"
)

// Config holds all configuration for the application
type Config struct {
	// Backend configuration
	BackendURL string

	// Timeouts per operation class. Submission runs a full multi-agent
	// analysis on the backend and is slow.
	HealthTimeout  time.Duration
	SubmitTimeout  time.Duration
	HistoryTimeout time.Duration

	// Startup health-check policy
	HealthRetryAttempts int
	HealthRetryDelay    time.Duration

	// Local storage configuration
	DataPath    string
	DatabaseURL string // optional postgres DSN; sqlite at DataPath when empty

	HistorySource string

	LogLevel string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		BackendURL:          getEnvWithDefault("BACKEND_URL", "http://localhost:8000"),
		HealthTimeout:       getEnvSeconds("HEALTH_TIMEOUT_SECONDS", 5),
		SubmitTimeout:       getEnvSeconds("SUBMIT_TIMEOUT_SECONDS", 300),
		HistoryTimeout:      getEnvSeconds("HISTORY_TIMEOUT_SECONDS", 30),
		HealthRetryAttempts: getEnvInt("HEALTH_RETRY_ATTEMPTS", 3),
		HealthRetryDelay:    getEnvMillis("HEALTH_RETRY_DELAY_MS", 2000),
		DataPath:            getEnvWithDefault("DATA_PATH", defaultDataPath()),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		HistorySource:       getEnvWithDefault("HISTORY_SOURCE", HistorySourceLocal),
		LogLevel:            getEnvWithDefault("LOG_LEVEL", "INFO"),
	}

	if cfg.HistorySource != HistorySourceLocal && cfg.HistorySource != HistorySourceServer {
		return nil, fmt.Errorf("invalid HISTORY_SOURCE %q: must be %q or %q",
			cfg.HistorySource, HistorySourceLocal, HistorySourceServer)
	}

	if cfg.HealthRetryAttempts < 1 {
		return nil, fmt.Errorf("HEALTH_RETRY_ATTEMPTS must be at least 1, got %d", cfg.HealthRetryAttempts)
	}

	return cfg, nil
}

func defaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "summarizer.db"
	}
	return filepath.Join(home, ".video-summarizer", "summarizer.db")
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvSeconds(key string, defaultValue int) time.Duration {
	return time.Duration(getEnvInt(key, defaultValue)) * time.Second
}

func getEnvMillis(key string, defaultValue int) time.Duration {
	return time.Duration(getEnvInt(key, defaultValue)) * time.Millisecond
}
