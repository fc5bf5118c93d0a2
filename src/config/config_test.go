package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"BUILDKITE_ORG",
	"BUILDKITE_TOKEN",
	"KITE_PIPELINE",
	"KITE_REST_URL",
	"KITE_GRAPHQL_URL",
	"KITE_LOG_LEVEL",
	"KITE_BUILD_LIMIT",
}

// clearEnv unsets every variable kite reads, restoring them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
	assert.Equal(t, "retool", cfg.Organization)
	assert.Equal(t, "retool-development-dot-tests", cfg.Pipeline)
	assert.Equal(t, 10, cfg.BuildLimit)
}

func TestLoadFrom_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
organization = "acme"
token = "file-token"
pipeline = "acme/web"
build_limit = 25
log_level = "debug"
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "acme", cfg.Organization)
	assert.Equal(t, "file-token", cfg.Token)
	assert.Equal(t, "acme/web", cfg.Pipeline)
	assert.Equal(t, 25, cfg.BuildLimit)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Empty(t, cfg.RESTBaseURL)
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
organization = "acme"
token = "file-token"
`)
	t.Setenv("BUILDKITE_TOKEN", "env-token")
	t.Setenv("KITE_BUILD_LIMIT", "3")
	t.Setenv("KITE_GRAPHQL_URL", "http://localhost:9999/graphql")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "acme", cfg.Organization)
	assert.Equal(t, "env-token", cfg.Token)
	assert.Equal(t, 3, cfg.BuildLimit)
	assert.Equal(t, "http://localhost:9999/graphql", cfg.GraphQLBaseURL)
}

func TestLoadFrom_InvalidFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `organization = `)

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestLoadFrom_InvalidEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("KITE_BUILD_LIMIT", "many")

	_, err := LoadFrom("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.Token = "t"

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing token", mutate: func(c *Config) { c.Token = "" }, wantErr: true},
		{name: "missing organization", mutate: func(c *Config) { c.Organization = "" }, wantErr: true},
		{name: "missing pipeline", mutate: func(c *Config) { c.Pipeline = "" }, wantErr: true},
		{name: "zero limit", mutate: func(c *Config) { c.BuildLimit = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_MissingTokenSentinel(t *testing.T) {
	cfg := Default()
	assert.ErrorIs(t, cfg.Validate(), ErrMissingToken)
}

func TestDefaultConfigPath(t *testing.T) {
	assert.True(t, strings.HasSuffix(DefaultConfigPath(), filepath.Join(".config", "kite", "config.toml")))
}
