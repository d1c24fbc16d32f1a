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

// Screening profiles. Classic is the original three-criterion screen
// (earnings, relative strength, SMA trend); Professional adds the trend
// template, volatility, sponsorship, operating leverage and story checks.
const (
	ProfileClassic      = "classic"
	ProfileProfessional = "professional"
)

// Ranking keys for the final result set.
const (
	RankByLeverage = "leverage"
	RankByStrength = "strength"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External APIs
	OpenAI OpenAIConfig
	EDGAR  EDGARConfig
	Yahoo  YahooConfig

	// Screening
	Screen ScreenConfig

	// Retry policy for upstream calls
	Retry RetryConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// OpenAIConfig holds the AI backend configuration.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
}

// EDGARConfig holds SEC EDGAR configuration.
// The SEC requires a descriptive User-Agent with contact information.
type EDGARConfig struct {
	UserAgent string
	BaseURL   string
}

// YahooConfig holds market data provider configuration.
type YahooConfig struct {
	BaseURL string
}

// ScreenConfig holds screening thresholds and behavior.
type ScreenConfig struct {
	Profile string // classic | professional
	RankBy  string // leverage | strength

	EarningsGrowthThreshold   float64 // decimal fraction, 0.20 = 20%
	RelativeStrengthThreshold float64 // 1.0 = matching benchmark
	SMAPeriod                 int
	SMA200Period              int
	BenchmarkTicker           string
	MinInstitutionalOwnership float64 // percent
	MaxVolatility20D          float64 // decimal fraction of min low
	HistoryDays               int
	CacheMaxAge               time.Duration
	CacheRetentionDays        int
	RateLimitDelay            time.Duration
	DefaultScreenLimit        int
}

// RetryConfig holds the upstream retry policy.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// Load reads configuration from environment variables.
// This is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		OpenAI: OpenAIConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o"),
			Temperature: getEnvAsFloat("OPENAI_TEMPERATURE", 0.7),
			MaxTokens:   getEnvAsInt("OPENAI_MAX_TOKENS", 500),
		},

		EDGAR: EDGARConfig{
			UserAgent: getEnv("SEC_API_USER_AGENT", ""),
			BaseURL:   getEnv("EDGAR_BASE_URL", "https://data.sec.gov"),
		},

		Yahoo: YahooConfig{
			BaseURL: getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
		},

		Screen: ScreenConfig{
			Profile:                   getEnv("SCREEN_PROFILE", ProfileProfessional),
			RankBy:                    getEnv("RANK_BY", RankByLeverage),
			EarningsGrowthThreshold:   getEnvAsFloat("EARNINGS_GROWTH_THRESHOLD", 0.20),
			RelativeStrengthThreshold: getEnvAsFloat("RELATIVE_STRENGTH_THRESHOLD", 1.0),
			SMAPeriod:                 getEnvAsInt("SMA_PERIOD", 50),
			SMA200Period:              getEnvAsInt("SMA_200_PERIOD", 200),
			BenchmarkTicker:           getEnv("BENCHMARK_TICKER", "SPY"),
			MinInstitutionalOwnership: getEnvAsFloat("MIN_INSTITUTIONAL_OWNERSHIP", 30.0),
			MaxVolatility20D:          getEnvAsFloat("MAX_VOLATILITY_20D", 0.05),
			HistoryDays:               getEnvAsInt("HISTORY_DAYS", 365),
			CacheMaxAge:               getEnvAsDuration("CACHE_MAX_AGE", "24h"),
			CacheRetentionDays:        getEnvAsInt("CACHE_RETENTION_DAYS", 30),
			RateLimitDelay:            getEnvAsDuration("RATE_LIMIT_DELAY", "300ms"),
			DefaultScreenLimit:        getEnvAsInt("DEFAULT_SCREEN_LIMIT", 50),
		},

		Retry: RetryConfig{
			MaxAttempts: getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
			BaseDelay:   getEnvAsDuration("RETRY_BASE_DELAY", "1s"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are consistent.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Screen.Profile != ProfileClassic && c.Screen.Profile != ProfileProfessional {
		return fmt.Errorf("SCREEN_PROFILE must be one of: %s, %s", ProfileClassic, ProfileProfessional)
	}

	if c.Screen.RankBy != RankByLeverage && c.Screen.RankBy != RankByStrength {
		return fmt.Errorf("RANK_BY must be one of: %s, %s", RankByLeverage, RankByStrength)
	}

	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("RETRY_MAX_ATTEMPTS must be at least 1")
	}

	return nil
}

// IsOpenAIConfigured reports whether the AI backend can be used.
// Placeholder keys from .env templates do not count.
func (c *Config) IsOpenAIConfigured() bool {
	return c.OpenAI.APIKey != "" && !strings.HasPrefix(c.OpenAI.APIKey, "sk-your")
}

// IsEDGARConfigured reports whether the SEC identity is usable.
func (c *Config) IsEDGARConfigured() bool {
	return c.EDGAR.UserAgent != "" && strings.Contains(c.EDGAR.UserAgent, "@")
}

// MissingKeys returns required configuration keys that are not set.
func (c *Config) MissingKeys() []string {
	var missing []string
	if !c.IsOpenAIConfigured() {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if !c.IsEDGARConfigured() {
		missing = append(missing, "SEC_API_USER_AGENT")
	}
	return missing
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
