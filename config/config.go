package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Defaults applied when a value is not supplied
const (
	DefaultPort           = "5000"
	DefaultStorageType    = "mongo"
	DefaultDatabaseName   = "RecipeApp"
	DefaultSpoonacularURL = "https://api.spoonacular.com"
	DefaultRateLimit      = 60
	DefaultEnvFile        = "config.env"

	// PlaceholderAPIKey is the value shipped in the sample config.env
	PlaceholderAPIKey = "YOUR_API_KEY_HERE"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string
	LogLevel    string

	// Storage configuration
	StorageType  string
	DatabaseURL  string
	DatabaseName string

	// Recipe discovery
	SpoonacularAPIKey string
	SpoonacularURL    string

	// Redis configuration, optional
	RedisURL           string
	RateLimitPerMinute int

	// Image offload, optional
	S3BucketName string
	AWSRegion    string
}

// SpoonacularConfigured reports whether the discovery proxy has a usable key
func (c *Config) SpoonacularConfigured() bool {
	return c.SpoonacularAPIKey != "" && c.SpoonacularAPIKey != PlaceholderAPIKey
}

// LoadConfig builds the configuration from the environment, an optional
// config.env file, and Docker secrets under SECRETS_DIR, in that order.
func LoadConfig() (*Config, error) {
	envFile := os.Getenv("CONFIG_FILE")
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil {
		logrus.WithField("file", envFile).Debug("No env file found")
	}

	cfg := &Config{
		ServerPort:        lookup("PORT", "server_port", DefaultPort),
		ServerHost:        lookup("SERVER_HOST", "server_host", ""),
		LogLevel:          lookup("LOG_LEVEL", "", "info"),
		StorageType:       strings.ToLower(lookup("STORAGE_TYPE", "", DefaultStorageType)),
		DatabaseURL:       databaseURL(),
		DatabaseName:      lookup("DB_NAME", "db_name", DefaultDatabaseName),
		SpoonacularAPIKey: lookup("SPOONACULAR_API_KEY", "spoonacular_api_key", ""),
		SpoonacularURL:    lookup("SPOONACULAR_API_URL", "", DefaultSpoonacularURL),
		RedisURL:          lookup("REDIS_URL", "redis_url", ""),
		S3BucketName:      lookup("S3_BUCKET_NAME", "", ""),
		AWSRegion:         lookup("AWS_REGION", "", ""),
	}

	cfg.CORSOrigins = splitList(lookup("CORS_ORIGINS", "", "*"))

	limit := lookup("RATE_LIMIT_PER_MINUTE", "", "")
	cfg.RateLimitPerMinute = DefaultRateLimit
	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE %q: %w", limit, err)
		}
		cfg.RateLimitPerMinute = n
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// databaseURL accepts the historical URL variable as well as DATABASE_URL
func databaseURL() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}
	return lookup("URL", "database_url", "")
}

// lookup returns the environment variable, then the Docker secret, then def
func lookup(envVar, secret, def string) string {
	if v := strings.TrimSpace(os.Getenv(envVar)); v != "" {
		return v
	}
	if secret != "" && (IsProduction() || os.Getenv("SECRETS_DIR") != "") {
		if v := readSecret(secret); v != "" {
			return v
		}
	}
	return def
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
