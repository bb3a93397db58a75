package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Azure  AzureConfig
	Batch  BatchConfig
	Server ServerConfig
}

// AzureConfig holds Document Intelligence configuration
type AzureConfig struct {
	Endpoint     string
	APIKey       string
	APIVersion   string
	Timeout      time.Duration
	PollInterval time.Duration
}

// BatchConfig holds batch-runner configuration
type BatchConfig struct {
	ChunkSize      int
	OverheadFactor float64
	Tolerance      float64
	InMemoryMode   bool
	TempDir        string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr      string
	MaxStoredRuns int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Azure: AzureConfig{
			Endpoint:     getEnv("AZURE_ENDPOINT", ""),
			APIKey:       getEnv("AZURE_API_KEY", ""),
			APIVersion:   getEnv("AZURE_API_VERSION", "2024-11-30"),
			Timeout:      getEnvAsDuration("AZURE_TIMEOUT", 2*time.Minute),
			PollInterval: getEnvAsDuration("AZURE_POLL_INTERVAL", 2*time.Second),
		},
		Batch: BatchConfig{
			ChunkSize:      getEnvAsInt("CHUNK_SIZE", 10),
			OverheadFactor: getEnvAsFloat64("OVERHEAD_FACTOR", 1.3),
			Tolerance:      getEnvAsFloat64("TOLERANCE", 0.01),
			InMemoryMode:   getEnvAsBool("IN_MEMORY_MODE", false),
			TempDir:        getEnv("TEMP_DIR", os.TempDir()),
		},
		Server: ServerConfig{
			HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
			MaxStoredRuns: getEnvAsInt("MAX_STORED_RUNS", 32),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Azure.Endpoint == "" {
		return NewAppError("CONFIG_ERROR", "AZURE_ENDPOINT is required", ErrInvalidInput)
	}
	if c.Azure.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "AZURE_API_KEY is required", ErrInvalidInput)
	}
	if c.Batch.ChunkSize <= 0 {
		return NewAppError("CONFIG_ERROR", "CHUNK_SIZE must be positive", ErrInvalidInput)
	}
	if c.Batch.Tolerance < 0 {
		return NewAppError("CONFIG_ERROR", "TOLERANCE must not be negative", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	return nil
}
