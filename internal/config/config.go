package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Auth
	JWTSecret  string
	ServiceKey string

	// Gemini AI
	GeminiAPIKeys []string
	GeminiModel   string

	// Analysis
	QuotaWaitSeconds int

	// Storage
	StoragePath string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:             getEnvOrDefault("PORT", "8080"),
		Env:              getEnvOrDefault("ENV", "development"),
		DatabaseURL:      mustGetEnv("DATABASE_URL"),
		RedisURL:         mustGetEnv("REDIS_URL"),
		JWTSecret:        mustGetEnv("JWT_SECRET"),
		ServiceKey:       mustGetEnv("SERVICE_KEY"),
		GeminiAPIKeys:    splitKeys(mustGetEnv("GEMINI_API_KEYS")),
		GeminiModel:      getEnvOrDefault("GEMINI_MODEL", "gemini-3-flash-preview"),
		QuotaWaitSeconds: getEnvAsIntOrDefault("QUOTA_WAIT_SECONDS", 300),
		StoragePath:      getEnvOrDefault("STORAGE_PATH", "./uploads"),
		FrontendURL:      getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	if len(cfg.GeminiAPIKeys) == 0 {
		panic("GEMINI_API_KEYS must contain at least one key")
	}

	return cfg
}

// splitKeys parses a comma-separated credential list, dropping blanks.
func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		k = strings.TrimSpace(k)
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
