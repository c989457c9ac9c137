package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
	BackendMemory    = "memory"
)

type Config struct {
	Port         string
	StoreBackend string

	FirebaseCredentialsJSON string
	FirebaseCredentialsFile string
	FirebaseProjectID       string
	DatabaseURL             string

	ClerkSecretKey     string
	ClerkWebhookSecret string
	MetricsUser        string
	MetricsPass        string

	RateLimitRPS   float64
	RateLimitBurst int

	ChatDailyLimit int
	LLMAPIURL      string
	LLMAPIKey      string
	LLMModel       string

	PushEnabled bool

	LogLevel string
	LogFile  string
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found")
	}

	cfg := &Config{
		Port:                    getEnv("PORT", "3333"),
		StoreBackend:            getEnv("STORE_BACKEND", BackendFirestore),
		FirebaseCredentialsJSON: os.Getenv("FIREBASE_CREDENTIALS_JSON"),
		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", "./serviceAccountKey.json"),
		FirebaseProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
		DatabaseURL:             os.Getenv("DATABASE_URL"),
		ClerkSecretKey:          os.Getenv("CLERK_SECRET_KEY"),
		ClerkWebhookSecret:      os.Getenv("CLERK_WEBHOOK_SECRET"),
		MetricsUser:             os.Getenv("METRICS_USER"),
		MetricsPass:             os.Getenv("METRICS_PASS"),
		LLMAPIURL:               getEnv("LLM_API_URL", "https://api.openai.com/v1"),
		LLMAPIKey:               os.Getenv("LLM_API_KEY"),
		LLMModel:                getEnv("LLM_MODEL", "gpt-4o-mini"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFile:                 os.Getenv("LOG_FILE"),
	}

	var err error
	if cfg.RateLimitRPS, err = getFloat("RATE_LIMIT_RPS", 5); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 30); err != nil {
		return nil, err
	}
	if cfg.ChatDailyLimit, err = getInt("CHAT_DAILY_LIMIT", 20); err != nil {
		return nil, err
	}
	if cfg.PushEnabled, err = getBool("PUSH_ENABLED", true); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendFirestore, BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if c.ClerkSecretKey == "" {
		return fmt.Errorf("CLERK_SECRET_KEY environment variable is not set")
	}
	if c.ChatDailyLimit < 0 {
		return fmt.Errorf("CHAT_DAILY_LIMIT must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
