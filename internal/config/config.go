// Package config provides configuration management for the application.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Reference data sources.
const (
	ReferenceBuiltin  = "builtin"
	ReferenceDatabase = "database"
)

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds all configuration values for the application.
type Config struct {
	// AWS
	AWSRegion string
	S3Bucket  string

	// Usage model artifact: empty for the embedded model, a path, or s3://bucket/key
	ModelURI string

	// Reference tables (rebates, benchmarks)
	ReferenceSource string
	DBHost          string
	DBPort          int
	DBName          string
	DBUser          string
	DBPassword      string

	// Report cache
	CacheBackend  string
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// SES
	SESSenderEmail string

	// Presigned batch CSV uploads on the HTTP API
	EnableBatchUploads bool

	// Tuning file read with viper
	TuningFile string

	// HTTP
	Port               string
	CORSAllowedOrigins []string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration

	// Application
	Stage          string
	LogLevel       string
	ServiceVersion string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	cfg := &Config{
		// AWS
		AWSRegion: getEnv("AWS_REGION", "us-east-1"),
		S3Bucket:  getEnv("S3_BUCKET", "home-energy-audit-dev"),

		ModelURI: getEnv("MODEL_URI", ""),

		// Reference tables
		ReferenceSource: strings.ToLower(getEnv("REFERENCE_SOURCE", ReferenceBuiltin)),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnvInt("DB_PORT", 5432),
		DBName:          getEnv("DB_NAME", "energy_audit"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", ""),

		// Report cache
		CacheBackend:  strings.ToLower(getEnv("CACHE_BACKEND", CacheMemory)),
		CacheTTL:      getEnvDuration("CACHE_TTL", 15*time.Minute),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		// SES
		SESSenderEmail: getEnv("SES_SENDER_EMAIL", ""),

		EnableBatchUploads: getEnvBool("ENABLE_BATCH_UPLOADS", false),

		TuningFile: getEnv("TUNING_FILE", ""),

		// HTTP
		Port:               getEnv("PORT", "8080"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RequestTimeout:     getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		// Application
		Stage:          getEnv("STAGE", "dev"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		ServiceVersion: getEnv("SERVICE_VERSION", "1.0.0"),
	}

	return cfg, nil
}

// DatabaseURL returns the PostgreSQL connection string.
func (c *Config) DatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	sslMode := "require" // Use SSL for RDS
	if c.DBHost == "localhost" || c.DBHost == "127.0.0.1" {
		sslMode = "disable" // Disable SSL for local development
	}
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + strconv.Itoa(c.DBPort) + "/" + c.DBName + "?sslmode=" + sslMode
}

// UsesDatabase reports whether reference tables are read from Postgres.
func (c *Config) UsesDatabase() bool {
	return c.ReferenceSource == ReferenceDatabase
}

// EmailEnabled reports whether report emails can be sent.
func (c *Config) EmailEnabled() bool {
	return c.SESSenderEmail != ""
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as int or returns a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool retrieves an environment variable as bool or returns a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("30s") or plain seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
