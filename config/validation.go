package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var storageTypes = map[string]bool{
	"mongo":    true,
	"sql":      true,
	"sqlite":   true,
	"postgres": true,
	"memory":   true,
}

// ValidateConfig checks the configuration and reports every problem at once.
// A missing discovery key is not an error: only the proxy endpoint fails.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if !storageTypes[cfg.StorageType] {
		errs = append(errs, ValidationError{"STORAGE_TYPE", fmt.Sprintf("unknown storage type %q", cfg.StorageType)}.Error())
	}
	if cfg.StorageType != "memory" && cfg.DatabaseURL == "" {
		errs = append(errs, ValidationError{"URL", "database URL is not defined in environment variables"}.Error())
	}
	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{"PORT", "listen port is required"}.Error())
	}
	if cfg.RateLimitPerMinute < 0 {
		errs = append(errs, ValidationError{"RATE_LIMIT_PER_MINUTE", "must not be negative"}.Error())
	}
	if cfg.S3BucketName != "" && cfg.AWSRegion == "" {
		errs = append(errs, ValidationError{"AWS_REGION", "required when S3_BUCKET_NAME is set"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
