package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads and parses configuration from a file, applies defaults for any
// omitted section, and validates the result.
func Load(configPath string) (*Config, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %s\n"+
			"Hint: Check the path or run with --config flag", absPath)
	}
	if info.IsDir() {
		absPath = filepath.Join(absPath, "devctl.yaml")
		if _, err := os.Stat(absPath); err != nil {
			return nil, fmt.Errorf("directory provided but devctl.yaml not found: %s", absPath)
		}
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	cfg := Defaults()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Discover finds the config file by checking standard locations.
// Priority order: $DEVCTL_CONFIG, ./devctl.yaml, ~/.config/devctl/devctl.yaml.
// When nothing is found, built-in defaults apply.
func Discover() (string, bool) {
	if p := os.Getenv("DEVCTL_CONFIG"); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}

	if _, err := os.Stat("devctl.yaml"); err == nil {
		return "devctl.yaml", true
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(homeDir, ".config", "devctl", "devctl.yaml")
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}

	return "", false
}

// expandEnvVars substitutes ${VAR} references with environment values.
// Unset variables expand to the empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})
}

func validate(cfg *Config) error {
	if cfg.Venv.Path == "" {
		return fmt.Errorf("venv.path is required")
	}
	if cfg.Venv.DeployPath == "" {
		return fmt.Errorf("venv.deploy_path is required")
	}
	if cfg.Venv.Path == cfg.Venv.DeployPath {
		return fmt.Errorf("venv.path and venv.deploy_path must differ")
	}
	if cfg.Venv.Python == "" {
		return fmt.Errorf("venv.python is required")
	}
	if cfg.Lint.MinScore <= 0 || cfg.Lint.MinScore > 10 {
		return fmt.Errorf("lint.min_score must be in (0, 10], got %g", cfg.Lint.MinScore)
	}
	if cfg.Test.MinCoverage < 0 || cfg.Test.MinCoverage > 100 {
		return fmt.Errorf("test.min_coverage must be in [0, 100], got %d", cfg.Test.MinCoverage)
	}
	if len(cfg.Format.Paths) == 0 {
		return fmt.Errorf("format.paths must not be empty")
	}
	if len(cfg.Lint.Paths) == 0 {
		return fmt.Errorf("lint.paths must not be empty")
	}
	if len(cfg.Test.Paths) == 0 {
		return fmt.Errorf("test.paths must not be empty")
	}
	if cfg.Docker.Container == "" || cfg.Docker.Image == "" {
		return fmt.Errorf("docker.container and docker.image are required")
	}
	if cfg.Docker.Dockerfile == "" {
		return fmt.Errorf("docker.dockerfile is required")
	}
	if cfg.Package.DistDir == "" {
		return fmt.Errorf("package.dist_dir is required")
	}
	if cfg.Package.Upload.Enabled && cfg.Package.Upload.Repository == "" {
		return fmt.Errorf("package.upload.repository is required when upload is enabled")
	}
	if cfg.State.Dir == "" {
		return fmt.Errorf("state.dir is required")
	}
	return nil
}
