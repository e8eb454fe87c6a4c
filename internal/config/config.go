package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the server configuration, loaded from the environment.
type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	OperationTimeout   time.Duration
	MaxRequestBodySize int64

	OllamaURL   string
	VisionModel string

	MaxBatchSize     int
	BatchConcurrency int

	MaxImageDimension int
	MaxImageSize      int64

	AzureAccountName string
	AzureAccountKey  string
}

// ServerAddress returns the host:port the HTTP server binds to.
func (c *Config) ServerAddress() string {
	return net.JoinHostPort(strings.TrimSpace(c.Host), strings.TrimSpace(c.Port))
}

// LoadFromEnv builds a Config from environment variables, applying defaults
// and validating the result.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		OperationTimeout:   parseDurationOrDefault("OPERATION_TIMEOUT", 120*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 1*1024*1024),
		OllamaURL:          getEnvOrDefault("OLLAMA_URL", "http://127.0.0.1:11434"),
		VisionModel:        getEnvOrDefault("VISION_MODEL", "moondream"),
		MaxBatchSize:       int(parseIntOrDefault("MAX_BATCH_SIZE", 10)),
		BatchConcurrency:   int(parseIntOrDefault("BATCH_CONCURRENCY", 3)),
		MaxImageDimension:  int(parseIntOrDefault("MAX_IMAGE_DIMENSION", 1568)),
		MaxImageSize:       parseIntOrDefault("MAX_IMAGE_SIZE", 32*1024*1024),
		AzureAccountName:   os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureAccountKey:    os.Getenv("AZURE_STORAGE_KEY"),
	}

	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.RequestTimeout <= 0 || cfg.OperationTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, operation=%s)",
			cfg.RequestTimeout, cfg.OperationTimeout)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if strings.TrimSpace(cfg.VisionModel) == "" {
		return nil, fmt.Errorf("VISION_MODEL cannot be empty")
	}
	if cfg.MaxBatchSize < 1 {
		return nil, fmt.Errorf("MAX_BATCH_SIZE must be >= 1 (got %d)", cfg.MaxBatchSize)
	}
	if cfg.BatchConcurrency < 1 {
		return nil, fmt.Errorf("BATCH_CONCURRENCY must be >= 1 (got %d)", cfg.BatchConcurrency)
	}
	if cfg.AzureAccountName != "" && cfg.AzureAccountKey == "" {
		return nil, fmt.Errorf("AZURE_STORAGE_KEY is required when AZURE_STORAGE_ACCOUNT is set")
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
