package config

import (
	"fmt"
	"log"
	"os"
	"slices"
	"strconv"

	"github.com/dsimile/mcp-neo4j-server/internal/logger"
)

type TransportMode string

const (
	TransportModeStdio TransportMode = "stdio"
	TransportModeSSE   TransportMode = "sse"
	TransportModeHTTP  TransportMode = "http"
)

// ValidTransportModes defines the allowed transport mode values.
var ValidTransportModes = []TransportMode{TransportModeStdio, TransportModeSSE, TransportModeHTTP}

// Config holds the application configuration.
type Config struct {
	URI       string
	Username  string
	Password  string
	Database  string
	ReadOnly  bool // If true, only read-only tools are registered
	Telemetry bool // If false, disables usage telemetry
	LogLevel  string
	LogFormat string

	TransportMode TransportMode // MCP transport (stdio, sse or http)
	HTTPHost      string        // Bind host for sse/http transports (default: "127.0.0.1")
	HTTPPort      string        // Bind port for sse/http transports (default: "8080")
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("configuration is required but was nil")
	}
	if c.URI == "" {
		return fmt.Errorf("Neo4j URI is required but was empty")
	}
	if c.Username == "" {
		return fmt.Errorf("Neo4j username is required but was empty")
	}
	if c.Password == "" {
		return fmt.Errorf("Neo4j password is required but was empty")
	}

	if c.TransportMode == "" {
		c.TransportMode = TransportModeStdio
	}
	if !slices.Contains(ValidTransportModes, c.TransportMode) {
		return fmt.Errorf("invalid transport mode '%s', must be one of %v", c.TransportMode, ValidTransportModes)
	}

	return nil
}

// CLIOverrides holds optional configuration values from CLI flags.
type CLIOverrides struct {
	URI           string
	Username      string
	Password      string
	Database      string
	ReadOnly      string
	Telemetry     string
	TransportMode string
	Host          string
	Port          string
}

// LoadConfig loads configuration from environment variables, applies CLI
// overrides, and validates. CLI flag values take precedence over
// environment variables.
func LoadConfig(cliOverrides *CLIOverrides) (*Config, error) {
	logLevel := GetEnvWithDefault("NEO4J_LOG_LEVEL", "info")
	logFormat := GetEnvWithDefault("NEO4J_LOG_FORMAT", "text")

	if !slices.Contains(logger.ValidLogLevels, logLevel) {
		fmt.Fprintf(os.Stderr, "Warning: invalid NEO4J_LOG_LEVEL '%s', using default 'info'. Valid values: %v\n", logLevel, logger.ValidLogLevels)
		logLevel = "info"
	}
	if !slices.Contains(logger.ValidLogFormats, logFormat) {
		fmt.Fprintf(os.Stderr, "Warning: invalid NEO4J_LOG_FORMAT '%s', using default 'text'. Valid values: %v\n", logFormat, logger.ValidLogFormats)
		logFormat = "text"
	}

	cfg := &Config{
		URI:           GetEnv("NEO4J_URI"),
		Username:      GetEnv("NEO4J_USERNAME"),
		Password:      GetEnv("NEO4J_PASSWORD"),
		Database:      GetEnvWithDefault("NEO4J_DATABASE", "neo4j"),
		ReadOnly:      ParseBool(GetEnv("NEO4J_READ_ONLY"), false),
		Telemetry:     ParseBool(GetEnv("NEO4J_TELEMETRY"), true),
		LogLevel:      logLevel,
		LogFormat:     logFormat,
		TransportMode: TransportMode(GetEnvWithDefault("NEO4J_TRANSPORT_MODE", string(TransportModeStdio))),
		HTTPHost:      GetEnvWithDefault("NEO4J_MCP_HTTP_HOST", "127.0.0.1"),
		HTTPPort:      GetEnvWithDefault("NEO4J_MCP_HTTP_PORT", "8080"),
	}

	if cliOverrides != nil {
		if cliOverrides.URI != "" {
			cfg.URI = cliOverrides.URI
		}
		if cliOverrides.Username != "" {
			cfg.Username = cliOverrides.Username
		}
		if cliOverrides.Password != "" {
			cfg.Password = cliOverrides.Password
		}
		if cliOverrides.Database != "" {
			cfg.Database = cliOverrides.Database
		}
		if cliOverrides.ReadOnly != "" {
			cfg.ReadOnly = ParseBool(cliOverrides.ReadOnly, false)
		}
		if cliOverrides.Telemetry != "" {
			cfg.Telemetry = ParseBool(cliOverrides.Telemetry, true)
		}
		if cliOverrides.TransportMode != "" {
			cfg.TransportMode = TransportMode(cliOverrides.TransportMode)
		}
		if cliOverrides.Host != "" {
			cfg.HTTPHost = cliOverrides.Host
		}
		if cliOverrides.Port != "" {
			cfg.HTTPPort = cliOverrides.Port
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// GetEnv returns the value of an environment variable or empty string if not set.
func GetEnv(key string) string {
	return os.Getenv(key)
}

// GetEnvWithDefault returns the value of an environment variable or a default value.
func GetEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ParseBool parses a string to bool using strconv.ParseBool, returning the
// default for empty or invalid input.
func ParseBool(value string, defaultValue bool) bool {
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: Invalid boolean value %q, using default: %v", value, defaultValue)
		return defaultValue
	}
	return parsed
}
