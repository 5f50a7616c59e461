package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Logging
	LogLevel string

	// Storage paths
	ACLStorePath      string
	ScoringConfigPath string
	SeedFile          string

	// Feature flags
	EnableMetrics bool
	EnableCORS    bool

	// Scoring defaults overridable from the environment
	ProximityRange      int
	RecencyHalfLifeDays int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),

		ACLStorePath:      getEnv("ACL_STORE_PATH", "data/acl_store.json"),
		ScoringConfigPath: getEnv("SCORING_CONFIG_PATH", ""),
		SeedFile:          getEnv("SEED_FILE", ""),

		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),

		ProximityRange:      getEnvInt("SCORING_PROXIMITY_RANGE", 2),
		RecencyHalfLifeDays: getEnvInt("SCORING_RECENCY_HALF_LIFE_DAYS", 7),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.ProximityRange < 1 {
		return fmt.Errorf("SCORING_PROXIMITY_RANGE must be at least 1")
	}
	if c.RecencyHalfLifeDays < 1 {
		return fmt.Errorf("SCORING_RECENCY_HALF_LIFE_DAYS must be at least 1")
	}
	if c.Environment == "production" && c.ACLStorePath == "" {
		return fmt.Errorf("ACL_STORE_PATH is required in production")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
