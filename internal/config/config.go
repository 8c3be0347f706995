// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host    string
	Port    int
	Env     string // "development", "production", "testing"
	BaseURL string // public URL used in QR codes and mail links

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache + token store)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Social login credentials. A provider with an empty client ID is
	// simply disabled; its endpoint returns 503.
	KakaoClientID      string
	KakaoClientSecret  string
	NaverClientID      string
	NaverClientSecret  string
	GoogleClientID     string
	GoogleClientSecret string

	// S3-compatible object storage for thumbnails and profile images.
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// SMTP delivery for mailing campaigns.
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing or out of range.
func Load() (*Config, error) {
	port, err := strconv.Atoi(envOrDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("APP_PORT must be numeric: %w", err)
	}

	cfg := &Config{
		Host:    envOrDefault("APP_HOST", "0.0.0.0"),
		Port:    port,
		Env:     envOrDefault("APP_ENV", "development"),
		BaseURL: envOrDefault("APP_BASE_URL", "http://localhost:8080"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "lislab"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "lislab"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		KakaoClientID:      os.Getenv("KAKAO_CLIENT_ID"),
		KakaoClientSecret:  os.Getenv("KAKAO_CLIENT_SECRET"),
		NaverClientID:      os.Getenv("NAVER_CLIENT_ID"),
		NaverClientSecret:  os.Getenv("NAVER_CLIENT_SECRET"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "eu-central"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "lislab-media"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: envOrDefault("SMTP_PORT", "587"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: envOrDefault("SMTP_FROM", "noreply@lislab.local"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values. Production refuses to start with
// the development database password.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.Env, validation.Required, validation.In("development", "production", "testing")),
		validation.Field(&c.DBHost, validation.Required),
		validation.Field(&c.DBName, validation.Required),
	); err != nil {
		return err
	}

	if c.Env == "production" && c.DBPassword == "changeme" {
		return fmt.Errorf("POSTGRES_PASSWORD must be set in production")
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
