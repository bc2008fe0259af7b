package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	// Airtable (external store) configuration
	AirtableAPIURL      string
	AirtableAccessToken string
	AirtableBaseID      string
	AirtableTableID     string
	// Allowed cross-origin caller (the referral form frontend)
	FrontendURL string
	// development enables verbose error messages in responses
	AppEnv string
	// Overall per-request budget for external-store calls
	StoreTimeoutSeconds int
	// Redis/Upstash Configuration (optional, rate limiting)
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitSubmitThreshold int
	RateLimitGlobalThreshold int
}

func LoadConfig() (*Config, error) {
	// Load .env file (effective locally, ignored in production if absent)
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		// Trailing slashes stripped to prevent double slashes in request URLs
		AirtableAPIURL:      strings.TrimRight(getEnv("AIRTABLE_API_URL", "https://api.airtable.com/v0"), "/"),
		AirtableAccessToken: getEnv("AIRTABLE_ACCESS_TOKEN", ""),
		AirtableBaseID:      getEnv("AIRTABLE_BASE_ID", ""),
		AirtableTableID:     getEnv("AIRTABLE_TABLE_ID", ""),
		FrontendURL:         strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		AppEnv:              getEnv("APP_ENV", "production"),
		StoreTimeoutSeconds: getEnvInt("STORE_TIMEOUT_SECONDS", 30),
		// Redis/Upstash Configuration
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		// Rate Limiting Configuration (with sensible defaults)
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitSubmitThreshold: getEnvInt("RATE_LIMIT_SUBMIT_THRESHOLD", 10),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
	}

	if cfg.AirtableAccessToken == "" || cfg.AirtableBaseID == "" || cfg.AirtableTableID == "" {
		log.Println("WARNING: Airtable credentials incomplete. Submissions will fail until AIRTABLE_ACCESS_TOKEN, AIRTABLE_BASE_ID and AIRTABLE_TABLE_ID are set.")
	}

	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// IsDevelopment reports whether verbose error detail may be returned to
// callers.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
