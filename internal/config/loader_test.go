package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devctl.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
project:
  name: acoustix
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "acoustix", cfg.Project.Name)
	assert.Equal(t, "venv", cfg.Venv.Path)
	assert.Equal(t, "venv-deploy", cfg.Venv.DeployPath)
	assert.Equal(t, 9.9, cfg.Lint.MinScore)
	assert.Equal(t, 95, cfg.Test.MinCoverage)
	assert.Equal(t, []string{"tests/benchmarks"}, cfg.Test.Exclude)
	assert.False(t, cfg.Package.Upload.Enabled)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
venv:
  path: .venv
  deploy_path: .venv-deploy
lint:
  min_score: 8.5
test:
  min_coverage: 80
docker:
  container: widget-test
  image: widget-test
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ".venv", cfg.Venv.Path)
	assert.Equal(t, 8.5, cfg.Lint.MinScore)
	assert.Equal(t, 80, cfg.Test.MinCoverage)
	assert.Equal(t, "widget-test", cfg.Docker.Container)
	// Untouched sections keep defaults.
	assert.Equal(t, "Dockerfile.test", cfg.Docker.Dockerfile)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("DEVCTL_TEST_REPO", "https://pypi.example.com/simple")

	path := writeConfig(t, `
package:
  upload:
    enabled: true
    repository: ${DEVCTL_TEST_REPO}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://pypi.example.com/simple", cfg.Package.Upload.Repository)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadDirectoryWithoutConfig(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty venv path", func(c *Config) { c.Venv.Path = "" }},
		{"venv paths collide", func(c *Config) { c.Venv.DeployPath = c.Venv.Path }},
		{"lint score zero", func(c *Config) { c.Lint.MinScore = 0 }},
		{"lint score above scale", func(c *Config) { c.Lint.MinScore = 10.5 }},
		{"coverage negative", func(c *Config) { c.Test.MinCoverage = -1 }},
		{"coverage above 100", func(c *Config) { c.Test.MinCoverage = 101 }},
		{"no format paths", func(c *Config) { c.Format.Paths = nil }},
		{"no docker image", func(c *Config) { c.Docker.Image = "" }},
		{"upload enabled without repository", func(c *Config) {
			c.Package.Upload.Enabled = true
			c.Package.Upload.Repository = ""
		}},
		{"empty state dir", func(c *Config) { c.State.Dir = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			assert.Error(t, validate(cfg))
		})
	}
}

func TestDiscoverEnvVar(t *testing.T) {
	path := writeConfig(t, "project:\n  name: x\n")
	t.Setenv("DEVCTL_CONFIG", path)

	found, ok := Discover()
	require.True(t, ok)
	assert.Equal(t, path, found)
}

func TestDiscoverNothing(t *testing.T) {
	t.Setenv("DEVCTL_CONFIG", "")
	t.Setenv("HOME", t.TempDir())
	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	_, ok := Discover()
	assert.False(t, ok)
}
