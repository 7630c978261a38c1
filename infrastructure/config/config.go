package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion        string
	DynamoDBTable    string
	ProjectIndexName string // GSI serving search-by-project
	EventBusName     string // empty disables event publication
	MetricsNamespace string

	// Storage behavior
	StorageTimeout time.Duration // bound on every store round trip

	// ProjectAuthority decides which project view is authoritative for
	// content submissions: "registry" (default) or "observed".
	ProjectAuthority string

	// Authentication
	JWTSecret string
	JWTIssuer string

	// MCP configuration
	MCPIdentity string // caller identity for the MCP surface

	// Logging and features
	LogLevel      string
	EnableMetrics bool
	EnableTracing bool
	EnableCORS    bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		AWSRegion:        getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable:    getEnv("TABLE_NAME", "vault"),
		ProjectIndexName: getEnv("PROJECT_INDEX_NAME", "ProjectIndex"),
		EventBusName:     getEnv("EVENT_BUS_NAME", ""),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "Vault/Backend"),

		StorageTimeout: getEnvDuration("STORAGE_TIMEOUT", 5*time.Second),

		ProjectAuthority: getEnv("PROJECT_AUTHORITY", "registry"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "vault-identity"),

		MCPIdentity: getEnv("VAULT_IDENTITY", ""),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", false),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.DynamoDBTable == "" {
		return fmt.Errorf("TABLE_NAME is required")
	}
	if c.ProjectIndexName == "" {
		return fmt.Errorf("PROJECT_INDEX_NAME is required")
	}
	if c.ProjectAuthority != "registry" && c.ProjectAuthority != "observed" {
		return fmt.Errorf("PROJECT_AUTHORITY must be \"registry\" or \"observed\", got %q", c.ProjectAuthority)
	}
	if c.StorageTimeout <= 0 {
		return fmt.Errorf("STORAGE_TIMEOUT must be positive")
	}
	if c.Environment == "production" && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
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

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}
