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

// ImageFailurePolicy decides what happens to a saved transaction when its
// attachment cannot be uploaded.
type ImageFailurePolicy string

const (
	// ImagePolicyKeepPending keeps the transaction and queues the image for retry.
	ImagePolicyKeepPending ImageFailurePolicy = "keep_pending"
	// ImagePolicyRollback deletes the transaction that lost its image.
	ImagePolicyRollback ImageFailurePolicy = "rollback"
)

// Cache drivers.
const (
	CacheDriverSQLite   = "sqlite"
	CacheDriverPostgres = "postgres"
)

// Config holds application configuration
type Config struct {
	Env  string
	Port string
	// APIKey guards the local daemon API. Empty leaves it open.
	APIKey string

	// Backend
	BackendURL     string
	RequestTimeout time.Duration

	// Cache
	Cache CacheConfig

	// Session
	SessionSecret string

	// Attachments
	ImageMaxDimension  int
	ImageJPEGQuality   int
	ImageSourcePrefix  string
	ImageFailurePolicy ImageFailurePolicy

	// Ledger defaults
	DefaultClosingDate int
	Location           *time.Location
}

// CacheConfig describes where the restart-survival cache lives.
type CacheConfig struct {
	Driver string
	Path   string

	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the gorm connection string for the configured driver.
func (c CacheConfig) DSN() string {
	if c.Driver == CacheDriverPostgres {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
	}
	return c.Path
}

// MigrateURL returns the golang-migrate database URL for the configured driver.
func (c CacheConfig) MigrateURL() string {
	if c.Driver == CacheDriverPostgres {
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
	}
	return "sqlite3://" + c.Path
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		APIKey: getEnv("API_KEY", ""),

		BackendURL: strings.TrimRight(getEnv("BACKEND_URL", ""), "/"),

		Cache: CacheConfig{
			Driver:   strings.ToLower(getEnv("CACHE_DRIVER", CacheDriverSQLite)),
			Path:     getEnv("CACHE_PATH", "data/kaskita-cache.db"),
			Host:     getEnv("CACHE_DB_HOST", "localhost"),
			Port:     getEnv("CACHE_DB_PORT", "5432"),
			User:     getEnv("CACHE_DB_USER", "kaskita"),
			Password: getEnv("CACHE_DB_PASSWORD", "kaskita"),
			DBName:   getEnv("CACHE_DB_NAME", "kaskita_cache"),
			SSLMode:  getEnv("CACHE_DB_SSLMODE", "disable"),
		},

		SessionSecret: getEnv("SESSION_SECRET", "fallback-session-secret-for-dev-only"),

		ImageSourcePrefix:  getEnv("IMAGE_SOURCE_PREFIX", ""),
		ImageFailurePolicy: ImageFailurePolicy(strings.ToLower(getEnv("IMAGE_FAILURE_POLICY", string(ImagePolicyKeepPending)))),
	}

	if config.BackendURL == "" {
		return nil, fmt.Errorf("BACKEND_URL is required")
	}

	switch config.Cache.Driver {
	case CacheDriverSQLite, CacheDriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported CACHE_DRIVER %q (use sqlite or postgres)", config.Cache.Driver)
	}

	switch config.ImageFailurePolicy {
	case ImagePolicyKeepPending, ImagePolicyRollback:
	default:
		return nil, fmt.Errorf("unsupported IMAGE_FAILURE_POLICY %q (use keep_pending or rollback)", config.ImageFailurePolicy)
	}

	timeoutStr := getEnv("REQUEST_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil || timeout <= 0 {
		log.Printf("Warning: invalid REQUEST_TIMEOUT value '%s', falling back to 30s\n", timeoutStr)
		timeout = 30 * time.Second
	}
	config.RequestTimeout = timeout

	config.ImageMaxDimension = getEnvInt("IMAGE_MAX_DIMENSION", 1600, 1, 10000)
	config.ImageJPEGQuality = getEnvInt("IMAGE_JPEG_QUALITY", 80, 1, 100)
	config.DefaultClosingDate = getEnvInt("DEFAULT_CLOSING_DATE", 1, 1, 31)

	tz := getEnv("TIMEZONE", "Asia/Jakarta")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("Warning: unknown TIMEZONE '%s', falling back to UTC\n", tz)
		loc = time.UTC
	}
	config.Location = loc

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt parses an integer variable, falling back to the default when the
// value is malformed or outside [lo, hi].
func getEnvInt(key string, defaultValue, lo, hi int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}
