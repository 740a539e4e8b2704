package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
// The values are loaded from environment variables.
type AppConfig struct {
	// Core settings
	Port         string
	DatabasePath string
	LogLevel     string

	// HTTP settings
	AllowedOrigins     []string
	MaxUploadSizeBytes int64

	// Analytics cache settings
	CacheTTL             time.Duration
	CacheCleanupInterval time.Duration

	// Forecasting policy knobs. The defaults match the documented
	// behaviour; they are configurable, not derived.
	SmoothingAlpha   float64 // exponential smoothing factor
	ForecastBaseline float64 // base amount for insufficient-data forecasts
}

// Cfg is a global instance of the AppConfig.
var Cfg *AppConfig

// LoadConfig loads configuration from environment variables or a .env file.
// It centralizes all configuration logic for the application.
func LoadConfig() {
	// 1. Try loading from the current directory (standard behavior)
	errEnv := godotenv.Load()

	// 2. If not found, try loading from the parent directory (common when running from /backend)
	if errEnv != nil {
		errEnv = godotenv.Load("../.env")
	}

	if errEnv != nil {
		if os.IsNotExist(errEnv) {
			log.Println("Info: No .env file found in current or parent directory. Relying on OS environment variables (expected in production).")
		} else {
			log.Printf("Warning: Error loading .env file: %v. Relying on OS environment variables.", errEnv)
		}
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	Cfg = &AppConfig{
		// Core
		Port:         getEnv("PORT", "8080"),
		DatabasePath: getEnv("DATABASE_PATH", "./moneymap.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		// HTTP
		AllowedOrigins:     getEnvAsList("ALLOWED_ORIGINS", "http://localhost:3000"),
		MaxUploadSizeBytes: getEnvAsInt64("MAX_UPLOAD_SIZE_BYTES", 5*1024*1024),

		// Cache
		CacheTTL:             getEnvAsDuration("ANALYTICS_CACHE_TTL", 5*time.Minute),
		CacheCleanupInterval: getEnvAsDuration("ANALYTICS_CACHE_CLEANUP_INTERVAL", 10*time.Minute),

		// Forecasting
		SmoothingAlpha:   getEnvAsFloat("FORECAST_SMOOTHING_ALPHA", 0.3),
		ForecastBaseline: getEnvAsFloat("FORECAST_BASELINE_AMOUNT", 0),
	}

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DBPath=%s, CacheTTL=%s",
		Cfg.Port, Cfg.LogLevel, Cfg.DatabasePath, Cfg.CacheTTL)
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a fallback.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}

// getEnvAsInt64 retrieves an environment variable as an int64 or returns a fallback.
func getEnvAsInt64(key string, fallback int64) int64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

// getEnvAsFloat retrieves an environment variable as a float64 or returns a fallback.
func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	log.Printf("Invalid float value for %s ('%s'), using default: %g", key, valueStr, fallback)
	return fallback
}

// getEnvAsList retrieves and parses a comma-separated environment variable.
func getEnvAsList(key, fallback string) []string {
	valueStr := getEnv(key, fallback)
	if valueStr == "" {
		return []string{}
	}
	parts := strings.Split(valueStr, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
