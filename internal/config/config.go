package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the portal.
type Config struct {
	App     AppConfig
	API     APIConfig
	Session SessionConfig
	Feed    FeedConfig
	Cache   CacheConfig
	Redis   RedisConfig
	Logger  LoggerConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// APIConfig points the portal at the external ticketing API.
type APIConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// SessionConfig defines auth cookie and session lifecycle parameters.
type SessionConfig struct {
	CookieName             string
	CookieTTLHours         int
	CleanupIntervalMinutes int
}

// FeedConfig tunes the list refresh and pagination behavior.
type FeedConfig struct {
	RefreshIntervalSeconds int
	PageSize               int
}

// CacheConfig selects and locates the snapshot store backend.
type CacheConfig struct {
	Backend string // "file" or "redis"
	Dir     string
}

// RedisConfig holds Redis connection values for the redis snapshot backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level       string
	Development bool
}

// DefaultAPIBaseURL is used when HELPDESK_API_URL is unset.
const DefaultAPIBaseURL = "https://api-chamados-wq6s.onrender.com"

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk-portal"),
			Env:                   env,
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "3000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		API: APIConfig{
			BaseURL:        getEnv("HELPDESK_API_URL", DefaultAPIBaseURL),
			TimeoutSeconds: getEnvAsInt("HELPDESK_API_TIMEOUT_SECONDS", 30),
		},
		Session: SessionConfig{
			CookieName:             getEnv("SESSION_COOKIE_NAME", "token"),
			CookieTTLHours:         getEnvAsInt("SESSION_COOKIE_TTL_HOURS", 24),
			CleanupIntervalMinutes: getEnvAsInt("SESSION_CLEANUP_INTERVAL_MINUTES", 10),
		},
		Feed: FeedConfig{
			RefreshIntervalSeconds: getEnvAsInt("FEED_REFRESH_INTERVAL_SECONDS", 30),
			PageSize:               getEnvAsInt("FEED_PAGE_SIZE", 40),
		},
		Cache: CacheConfig{
			Backend: getEnv("SNAPSHOT_BACKEND", "file"),
			Dir:     getEnv("SNAPSHOT_DIR", "./data/snapshots"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: env != "production",
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the remote API call timeout.
func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// CookieTTL returns the auth cookie lifetime.
func (s SessionConfig) CookieTTL() time.Duration {
	if s.CookieTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(s.CookieTTLHours) * time.Hour
}

// CleanupInterval returns how often expired sessions are evicted.
func (s SessionConfig) CleanupInterval() time.Duration {
	if s.CleanupIntervalMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(s.CleanupIntervalMinutes) * time.Minute
}

// RefreshInterval returns the silent refresh period for list feeds.
func (f FeedConfig) RefreshInterval() time.Duration {
	if f.RefreshIntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(f.RefreshIntervalSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
