/**
 * @description
 * Configuration loader for the Hype Tracker backend.
 * Responsible for reading environment variables, setting defaults, and performing strict validation.
 *
 * @dependencies
 * - github.com/joho/godotenv: For loading .env files
 * - standard "os": For reading env vars
 * - standard "fmt": For error reporting
 *
 * @notes
 * - Fails fast if DATABASE_URL is missing; external API keys degrade to fallback scoring instead.
 * - Uses a Singleton-like pattern where Load() returns a Config struct.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Redis    RedisConfig
	Sources  SourcesConfig
	Services ServicesConfig
	Worker   WorkerConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
	Env  string // "development" or "production"
}

// DBConfig holds PostgreSQL settings
type DBConfig struct {
	URL string
}

// RedisConfig holds Redis settings
type RedisConfig struct {
	URL string
}

// SourcesConfig holds external data-source endpoints and keys
type SourcesConfig struct {
	NewsAPIKey     string
	NewsAPIURL     string
	GdeltURL       string
	TrendsAPIURL   string
	IPOCalendarURL string
}

// ServicesConfig holds external service keys (AI, jobs, etc.)
type ServicesConfig struct {
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OpenAIModel    string
	AdminJWTSecret string
}

// WorkerConfig holds the nightly precompute settings
type WorkerConfig struct {
	CronSpec     string
	CompanyLimit int
	FetchDelay   time.Duration
}

// Load reads .env file and populates the Config struct
func Load() (*Config, error) {
	// Attempt to load .env, but don't crash if it fails (prod might inject env vars directly)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("GO_ENV", "development"),
		},
		DB: DBConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Sources: SourcesConfig{
			NewsAPIKey:     sanitizeCredential(getEnv("NEWS_API_KEY", "")),
			NewsAPIURL:     getEnv("NEWS_API_URL", "https://newsapi.org/v2/everything"),
			GdeltURL:       getEnv("GDELT_DOC_URL", "https://api.gdeltproject.org/api/v2/doc/doc"),
			TrendsAPIURL:   getEnv("TRENDS_API_URL", ""),
			IPOCalendarURL: getEnv("IPO_CALENDAR_URL", ""),
		},
		Services: ServicesConfig{
			OpenAIAPIKey:   sanitizeCredential(getEnv("OPENROUTER_API_KEY", "")),
			OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", "https://openrouter.ai/api/v1/chat/completions"),
			OpenAIModel:    getEnv("OPENAI_MODEL", "openai/gpt-4o-mini"),
			AdminJWTSecret: sanitizeCredential(getEnv("ADMIN_JWT_SECRET", "")),
		},
		Worker: WorkerConfig{
			CronSpec:     getEnv("PRECOMPUTE_CRON", "0 2 * * *"),
			CompanyLimit: getEnvAsInt("PRECOMPUTE_LIMIT", 50),
			FetchDelay:   time.Duration(getEnvAsInt("PRECOMPUTE_DELAY_MS", 1000)) * time.Millisecond,
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks for required variables
func validate(cfg *Config) error {
	if cfg.DB.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.Sources.NewsAPIKey == "" {
		fmt.Println("Warning: NEWS_API_KEY is missing. News sentiment will rely on GDELT only.")
	}
	if cfg.Services.OpenAIAPIKey == "" {
		fmt.Println("Warning: OPENROUTER_API_KEY is missing. Scores will not be LLM-refined.")
	}
	if cfg.Services.AdminJWTSecret == "" && cfg.Server.Env != "test" {
		fmt.Println("Warning: ADMIN_JWT_SECRET is missing. Admin routes will reject all requests.")
	}
	return nil
}

// Helper to get env var with default
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func sanitizeCredential(value string) string {
	trimmed := strings.TrimSpace(value)
	return strings.Trim(trimmed, "\"")
}

// Helper to get env var as int
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
