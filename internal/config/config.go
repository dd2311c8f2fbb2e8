package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the application configuration loaded from environment variables.
// This provides a centralized way to manage all runtime settings.
type Config struct {
	// HTTPPort is the port where the edge router listens for incoming requests.
	// Default: 7463
	HTTPPort int

	// DataDir is the base directory where persisted state is stored.
	// Default: ./data
	DataDir string

	// EnabledModules is a comma-separated list of module names to enable at startup.
	// Example: "audience"
	// Default: "audience"
	EnabledModules []string

	// LogLevel controls the verbosity of logging (debug, info, warn, error).
	// Default: "info"
	LogLevel string

	// DefaultPrivacy is the privacy status modules start with before a caller
	// sets one explicitly (optedin, optedout, optunknown).
	// Default: "optunknown"
	DefaultPrivacy string

	// StoreBackend selects the persistent store implementation ("file" or
	// "memory"). The memory backend keeps nothing across restarts.
	// Default: "file"
	StoreBackend string
}

// Load creates a Config instance by reading environment variables.
// Missing values are replaced with sensible defaults.
func Load() *Config {
	cfg := &Config{
		HTTPPort:       7463,
		DataDir:        "./data",
		EnabledModules: []string{"audience"},
		LogLevel:       "info",
		DefaultPrivacy: "optunknown",
		StoreBackend:   "file",
	}

	// Load HTTP_PORT
	if portStr := os.Getenv("HTTP_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 && port < 65536 {
			cfg.HTTPPort = port
		}
	}

	// Load DATA_DIR
	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		cfg.DataDir = dataDir
	}

	// Load ENABLED_MODULES
	if modulesStr := os.Getenv("ENABLED_MODULES"); modulesStr != "" {
		modules := strings.Split(modulesStr, ",")
		enabled := make([]string, 0, len(modules))
		for _, m := range modules {
			m = strings.TrimSpace(m)
			if m != "" {
				enabled = append(enabled, m)
			}
		}
		if len(enabled) > 0 {
			cfg.EnabledModules = enabled
		}
	}

	// Load LOG_LEVEL
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Load DEFAULT_PRIVACY
	if privacy := os.Getenv("DEFAULT_PRIVACY"); privacy != "" {
		cfg.DefaultPrivacy = strings.ToLower(strings.TrimSpace(privacy))
	}

	// Load STORE_BACKEND
	if backend := os.Getenv("STORE_BACKEND"); backend != "" {
		cfg.StoreBackend = strings.ToLower(strings.TrimSpace(backend))
	}

	return cfg
}

// IsModuleEnabled checks if a given module name is in the EnabledModules list.
func (c *Config) IsModuleEnabled(moduleName string) bool {
	for _, m := range c.EnabledModules {
		if m == moduleName {
			return true
		}
	}
	return false
}

// Validate performs basic validation on the configuration.
// Returns an error if any invalid settings are detected.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort >= 65536 {
		return fmt.Errorf("invalid HTTP_PORT: %d (must be 1-65535)", c.HTTPPort)
	}
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR cannot be empty")
	}
	switch c.StoreBackend {
	case "file", "memory":
	default:
		return fmt.Errorf("invalid STORE_BACKEND: %q (must be file or memory)", c.StoreBackend)
	}
	return nil
}
