package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	DatabaseURL string
	RedisURL    string
	JWTSecret   string
	Port        string
	Environment string

	// Requirement-cache TTL
	RequirementCacheTTL time.Duration

	// Batch pipeline settings
	PipelineInterval  time.Duration
	PipelineBatchSize int

	// Security configuration
	AllowedOrigins  string
	TrustedProxies  string
	EnableRateLimit bool
	MaxRequestSize  int64
}

// New creates a configuration instance from environment variables
func New() *Config {
	return &Config{
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		RedisURL:            getEnv("REDIS_URL", ""),
		JWTSecret:           getEnv("JWT_SECRET", ""),
		Port:                getEnv("PORT", "8080"),
		Environment:         getEnv("ENV", "development"),
		RequirementCacheTTL: getEnvAsDuration("REQUIREMENT_CACHE_TTL", 24*time.Hour),
		PipelineInterval:    getEnvAsDuration("PIPELINE_INTERVAL", time.Hour),
		PipelineBatchSize:   getEnvAsInt("PIPELINE_BATCH_SIZE", 50),
		AllowedOrigins:      getEnv("ALLOWED_ORIGINS", ""),
		TrustedProxies:      getEnv("TRUSTED_PROXIES", ""),
		EnableRateLimit:     getEnv("ENABLE_RATE_LIMIT", "true") == "true",
		MaxRequestSize:      getEnvAsInt64("MAX_REQUEST_SIZE", 10*1024*1024),
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetAllowedOrigins returns the allowed CORS origins
func (c *Config) GetAllowedOrigins() []string {
	if c.AllowedOrigins == "" {
		return nil
	}
	return strings.Split(c.AllowedOrigins, ",")
}

// GetTrustedProxies returns the trusted proxy IPs
func (c *Config) GetTrustedProxies() []string {
	if c.TrustedProxies == "" {
		return nil
	}
	return strings.Split(c.TrustedProxies, ",")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
