package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppName                string
	AppEnv                 string
	Port                   string
	DatabaseURL            string
	BaseURL                string // Public base URL of this service, used for QR codes
	FrontendURL            string // Where the OAuth callback sends the browser back to
	RedisURL               string
	SessionBackend         string        // "memory" or "redis"
	SessionTTL             time.Duration // 0 keeps sessions until logout or restart
	LinkCacheTTL           time.Duration // 0 disables the redis link cache
	OAuthStateKey          string        // Secret for signing OAuth state tokens
	GitHubClientID         string
	WxAppID                string
	CORSOrigins            []string
	OTelEnabled            bool
	OTelEndpoint           string
	RateLimitRPS           float64 // Rate limit for general API endpoints (requests per second)
	RateLimitBurst         int     // Burst size for rate limiting
	RateLimitAuthRPS       float64 // Rate limit for register/login (stricter)
	RateLimitAuthBurst     int
	RateLimitShortenRPS    float64 // Rate limit for addUrl (stricter)
	RateLimitShortenBurst  int
	RateLimitRedirectRPS   float64
	RateLimitRedirectBurst int
}

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	cfg := &Config{
		AppName:                getEnv("APP_NAME", "short-link"),
		AppEnv:                 getEnv("APP_ENV", "development"),
		Port:                   getEnv("PORT", "3000"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		BaseURL:                strings.TrimRight(getEnv("BASE_URL", "http://localhost:3000"), "/"),
		FrontendURL:            strings.TrimRight(getEnv("FRONTEND_URL", ""), "/"),
		RedisURL:               getEnv("REDIS_URL", ""),
		SessionBackend:         strings.ToLower(getEnv("SESSION_BACKEND", SessionBackendMemory)),
		SessionTTL:             getEnvDuration("SESSION_TTL", 0),
		LinkCacheTTL:           getEnvDuration("LINK_CACHE_TTL", time.Hour),
		OAuthStateKey:          getEnv("OAUTH_STATE_SECRET", ""),
		GitHubClientID:         getEnv("GITHUB_CLIENT_ID", ""),
		WxAppID:                getEnv("WX_APP_ID", ""),
		CORSOrigins:            getEnvSlice("CORS_ALLOWED_ORIGINS", nil),
		OTelEnabled:            getEnvBool("OTEL_ENABLED", false),
		OTelEndpoint:           getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
		RateLimitRPS:           getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:         getEnvInt("RATE_LIMIT_BURST", 20),
		RateLimitAuthRPS:       getEnvFloat("RATE_LIMIT_AUTH_RPS", 5),
		RateLimitAuthBurst:     getEnvInt("RATE_LIMIT_AUTH_BURST", 10),
		RateLimitShortenRPS:    getEnvFloat("RATE_LIMIT_SHORTEN_RPS", 2),
		RateLimitShortenBurst:  getEnvInt("RATE_LIMIT_SHORTEN_BURST", 5),
		RateLimitRedirectRPS:   getEnvFloat("RATE_LIMIT_REDIRECT_RPS", 30),
		RateLimitRedirectBurst: getEnvInt("RATE_LIMIT_REDIRECT_BURST", 60),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	switch c.SessionBackend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("SESSION_BACKEND=redis requires REDIS_URL")
		}
	default:
		return fmt.Errorf("SESSION_BACKEND must be %q or %q (got %q)", SessionBackendMemory, SessionBackendRedis, c.SessionBackend)
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("SESSION_TTL must not be negative")
	}
	return nil
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
