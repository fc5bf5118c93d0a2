// Package config provides configuration management for kite.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

const (
	defaultOrganization = "retool"
	defaultPipeline     = "retool-development-dot-tests"
	defaultBuildLimit   = 10
	defaultLogLevel     = "info"
)

// ErrMissingToken is returned by Validate when no API token is configured.
var ErrMissingToken = errors.New("BUILDKITE_TOKEN environment variable or token config value is required")

// Config holds the application configuration.
// Environment variables always take precedence over file values.
type Config struct {
	// Organization is the Buildkite organization slug.
	Organization string `toml:"organization" envconfig:"BUILDKITE_ORG"`
	// Token is the API token for authenticating with Buildkite.
	Token string `toml:"token" envconfig:"BUILDKITE_TOKEN"`
	// Pipeline is the pipeline searched by the commit, branch and build commands.
	Pipeline string `toml:"pipeline" envconfig:"KITE_PIPELINE"`

	RESTBaseURL    string `toml:"rest_url" envconfig:"KITE_REST_URL"`
	GraphQLBaseURL string `toml:"graphql_url" envconfig:"KITE_GRAPHQL_URL"`

	LogLevel   string `toml:"log_level" envconfig:"KITE_LOG_LEVEL"`
	BuildLimit int    `toml:"build_limit" envconfig:"KITE_BUILD_LIMIT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Organization: defaultOrganization,
		Pipeline:     defaultPipeline,
		LogLevel:     defaultLogLevel,
		BuildLimit:   defaultBuildLimit,
	}
}

// DefaultConfigPath returns the default path for the kite config file.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "kite", "config.toml")
}

// LoadFrom reads configuration from the given TOML file path on top of the
// defaults, then applies environment overrides. A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		}
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return &cfg, nil
}

// LoadFromEnv loads the default config file and environment overrides.
func LoadFromEnv() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// Validate checks the fields every API command needs.
func (c *Config) Validate() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	if c.Organization == "" {
		return errors.New("organization must not be empty")
	}
	if c.Pipeline == "" {
		return errors.New("pipeline must not be empty")
	}
	if c.BuildLimit <= 0 {
		return fmt.Errorf("build_limit must be positive, got %d", c.BuildLimit)
	}
	return nil
}
