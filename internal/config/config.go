package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// REST API the client talks to
	API APIConfig

	// Persisted client session
	Session SessionConfig

	// Generated PDF reports
	Report ReportConfig

	// Development stub server
	Server ServerConfig
}

// APIConfig holds API gateway client settings
type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// SessionConfig holds session store settings
type SessionConfig struct {
	FilePath string
}

// ReportConfig holds report renderer settings
type ReportConfig struct {
	OutputDir string
	FontPath  string // UTF-8 TTF font; without it Cyrillic text prints as dots
	CacheDir  string // reports opened in a viewer, one file per document
}

// ServerConfig holds stub HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	TokenTTL        time.Duration
	EnforceRoles    bool
	MaxBodyBytes    int64

	// Account created at startup when both are set
	SeedAdmin         string
	SeedAdminPassword string
}

// Load reads configuration from a .env file (if present) and environment variables
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL:   getEnv("API_BASE_URL", "http://localhost:8080/api"),
			Timeout:   getDurationEnv("API_TIMEOUT", 30*time.Second),
			UserAgent: getEnv("API_USER_AGENT", "docctl/1.0"),
		},
		Session: SessionConfig{
			FilePath: getEnv("SESSION_FILE", defaultSessionPath()),
		},
		Report: ReportConfig{
			OutputDir: getEnv("REPORT_DIR", "."),
			FontPath:  getEnv("REPORT_FONT", ""),
			CacheDir:  getEnv("REPORT_CACHE_DIR", defaultReportCacheDir()),
		},
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			TokenTTL:        getDurationEnv("SERVER_TOKEN_TTL", 12*time.Hour),
			EnforceRoles:    getBoolEnv("SERVER_ENFORCE_ROLES", true),
			MaxBodyBytes:    getInt64Env("SERVER_MAX_BODY", 20*1024*1024), // 20MB

			SeedAdmin:         getEnv("SERVER_SEED_ADMIN", ""),
			SeedAdminPassword: getEnv("SERVER_SEED_ADMIN_PASSWORD", ""),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}
	if c.Session.FilePath == "" {
		return fmt.Errorf("SESSION_FILE is required")
	}
	return nil
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "docvault-session.json")
	}
	return filepath.Join(home, ".docvault", "session.json")
}

func defaultReportCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "docvault-reports")
	}
	return filepath.Join(dir, "docvault", "reports")
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
