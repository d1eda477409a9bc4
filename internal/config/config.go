package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"divscout/internal/dividend"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Scanning
	ScanWorkers int
	ScanCron    string // cron spec for periodic rescans; empty disables

	// Market data
	QuoteCacheTTL time.Duration

	// Cadence inference gap tolerances, in days. Payout jitter varies by
	// market, so the bands are configuration rather than constants.
	GapBands dividend.Bands
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "divscout"),
		DBPassword: getEnv("DB_PASSWORD", "divscout"),
		DBName:     getEnv("DB_NAME", "divscout"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		ScanWorkers: getEnvInt("SCAN_WORKERS", 4),
		ScanCron:    getEnv("SCAN_CRON", ""),

		GapBands: dividend.Bands{
			MonthlyMin:   getEnvInt("MONTHLY_GAP_MIN", dividend.DefaultBands.MonthlyMin),
			MonthlyMax:   getEnvInt("MONTHLY_GAP_MAX", dividend.DefaultBands.MonthlyMax),
			QuarterlyMin: getEnvInt("QUARTERLY_GAP_MIN", dividend.DefaultBands.QuarterlyMin),
			QuarterlyMax: getEnvInt("QUARTERLY_GAP_MAX", dividend.DefaultBands.QuarterlyMax),
		},
	}

	ttlStr := getEnv("QUOTE_CACHE_TTL", "15m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		log.Printf("Warning: invalid QUOTE_CACHE_TTL value '%s', falling back to 15m\n", ttlStr)
		ttl = 15 * time.Minute
	}
	config.QuoteCacheTTL = ttl

	if config.ScanWorkers < 1 {
		config.ScanWorkers = 1
	}

	return config, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, value, defaultValue)
		return defaultValue
	}
	return n
}
