// Package config provides configuration management for the queryflow CLI.
//
// Precedence (highest to lowest): flags > env vars > config file > defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Default configuration values.
const (
	DefaultDriver = "sqlite"
	DefaultDSN    = ":memory:"
	DefaultFormat = "table"
)

// envPrefix is the prefix for environment variable overrides,
// e.g. QUERYFLOW_DATABASE_DRIVER -> database.driver.
const envPrefix = "QUERYFLOW_"

// DatabaseConfig selects the database the exec command talks to.
type DatabaseConfig struct {
	// Driver is one of "sqlite", "duckdb", "postgres".
	Driver string `koanf:"driver"`
	// DSN is the driver-specific connection string.
	DSN string `koanf:"dsn"`
}

// PluginsConfig enables the built-in plugins.
type PluginsConfig struct {
	// RowLimit caps SELECT row counts when > 0.
	RowLimit int64 `koanf:"row_limit"`
	// IdentifierCase is "", "upper", or "lower".
	IdentifierCase string `koanf:"identifier_case"`
}

// Config holds all CLI configuration options.
type Config struct {
	Database     DatabaseConfig `koanf:"database"`
	Plugins      PluginsConfig  `koanf:"plugins"`
	OutputFormat string         `koanf:"output"`
	Verbose      bool           `koanf:"verbose"`
}

// findConfigFile finds the config file to use.
// Priority: explicit path > queryflow.yaml > queryflow.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"queryflow.yaml", "queryflow.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load loads configuration from file, environment variables, and flags.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"database.driver": DefaultDriver,
		"database.dsn":    DefaultDSN,
		"output":          DefaultFormat,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file (optional unless explicitly given)
	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	} else if cfgFile != "" {
		return nil, fmt.Errorf("config file not found: %s", cfgFile)
	}

	// 3. Environment variables: QUERYFLOW_DATABASE_DRIVER -> database.driver
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// 4. CLI flags
	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded configuration for unusable values.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "duckdb", "postgres":
	default:
		return fmt.Errorf("unknown database driver %q (supported: sqlite, duckdb, postgres)", c.Database.Driver)
	}
	switch c.Plugins.IdentifierCase {
	case "", "upper", "lower":
	default:
		return fmt.Errorf("unknown identifier case %q (supported: upper, lower)", c.Plugins.IdentifierCase)
	}
	switch c.OutputFormat {
	case "table", "json":
	default:
		return fmt.Errorf("unknown output format %q (supported: table, json)", c.OutputFormat)
	}
	return nil
}
