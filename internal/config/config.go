package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Auth     AuthConfig
	Server   ServerConfig
	CORS     CORSConfig
	Storage  StorageConfig
}

type DatabaseConfig struct {
	Driver   string
	Path     string
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

type AuthConfig struct {
	TokenSecret       string
	SessionTTL        time.Duration
	AdminPassword     string
	AdminPasswordHash string
	AdminEmails       []string
	GoogleClientID    string
	GoogleJWKSURL     string
}

type ServerConfig struct {
	Port          string
	GinMode       string
	UploadDir     string
	MaxUploadSize int64
	TimeZone      string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type StorageConfig struct {
	DatasetKey string
}

const (
	defaultAdminPassword = "admin123"
	defaultGoogleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"
	defaultMaxUpload     = int64(10 << 20)
)

func LoadConfig() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "sqlite"),
			Path:     getEnv("DB_PATH", "data/navigator.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "school_navigator"),
		},
		Auth: AuthConfig{
			TokenSecret:       getEnv("JWT_SECRET", "your-session-secret-key"),
			SessionTTL:        parseDuration(getEnv("SESSION_TTL", "12h"), 12*time.Hour),
			AdminPassword:     getEnv("ADMIN_PASSWORD", defaultAdminPassword),
			AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
			AdminEmails:       parseList(getEnv("ADMIN_EMAILS", "admin@school.example.com")),
			GoogleClientID:    os.Getenv("GOOGLE_CLIENT_ID"),
			GoogleJWKSURL:     getEnv("GOOGLE_JWKS_URL", defaultGoogleJWKSURL),
		},
		Server: ServerConfig{
			Port:          getEnv("PORT", "8080"),
			GinMode:       getEnv("GIN_MODE", "debug"),
			UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
			MaxUploadSize: parseSize(os.Getenv("MAX_UPLOAD_SIZE"), defaultMaxUpload),
			TimeZone:      getEnv("TIMEZONE", "Local"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Storage: StorageConfig{
			DatasetKey: getEnv("STORAGE_KEY", "school_navigator_v1"),
		},
	}

	return config
}

// Location resolves the configured time zone used to decide "today"
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Server.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Server.TimeZone, err)
	}
	return loc, nil
}

// UsesDefaultAdminPassword reports whether the built-in demo password is active
func (c *Config) UsesDefaultAdminPassword() bool {
	return c.Auth.AdminPasswordHash == "" && c.Auth.AdminPassword == defaultAdminPassword
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil || duration <= 0 {
		fmt.Printf("Warning: Invalid duration format '%s', using default\n", s)
		return fallback
	}
	return duration
}

func parseSize(s string, fallback int64) int64 {
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		fmt.Printf("Warning: Invalid size '%s', using default\n", s)
		return fallback
	}
	return v
}

func parseList(s string) []string {
	items := []string{}
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
