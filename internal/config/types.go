package config

// Config represents the complete devctl configuration.
type Config struct {
	Project ProjectConfig `yaml:"project"`
	Venv    VenvConfig    `yaml:"venv"`
	Format  FormatConfig  `yaml:"format"`
	Lint    LintConfig    `yaml:"lint"`
	Test    TestConfig    `yaml:"test"`
	Docker  DockerConfig  `yaml:"docker"`
	Package PackageConfig `yaml:"package"`
	State   StateConfig   `yaml:"state"`
}

// ProjectConfig defines core project settings.
type ProjectConfig struct {
	Name     string `yaml:"name"`
	LogLevel string `yaml:"log_level"`
}

// VenvConfig defines virtual environment settings.
type VenvConfig struct {
	// Path is the primary environment used by the local and test pipelines.
	Path string `yaml:"path"`
	// DeployPath is the secondary environment used to verify the built wheel.
	DeployPath string `yaml:"deploy_path"`
	// Requirements is the declared dependency manifest installed into Path.
	Requirements string `yaml:"requirements"`
	// Python is the interpreter used to create environments.
	Python string `yaml:"python"`
}

// FormatConfig defines formatter settings.
type FormatConfig struct {
	Paths []string `yaml:"paths"`
}

// LintConfig defines linter settings.
type LintConfig struct {
	Paths    []string `yaml:"paths"`
	MinScore float64  `yaml:"min_score"`
}

// TestConfig defines test runner settings.
type TestConfig struct {
	Paths       []string `yaml:"paths"`
	Exclude     []string `yaml:"exclude"`
	CoverSource string   `yaml:"cover_source"`
	MinCoverage int      `yaml:"min_coverage"`
}

// DockerConfig defines container engine settings for the test image.
type DockerConfig struct {
	Container  string `yaml:"container"`
	Image      string `yaml:"image"`
	Dockerfile string `yaml:"dockerfile"`
	Context    string `yaml:"context"`
}

// PackageConfig defines build-and-publish settings.
type PackageConfig struct {
	DistDir string       `yaml:"dist_dir"`
	Upload  UploadConfig `yaml:"upload"`
}

// UploadConfig gates the publish step. Disabled by default while the
// package index rollout is pending.
type UploadConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Repository string `yaml:"repository,omitempty"`
}

// StateConfig defines where run history and the invocation lock live.
type StateConfig struct {
	Dir string `yaml:"dir"`
}

// Defaults returns a Config with sensible defaults for a conventional
// Python project layout.
func Defaults() *Config {
	return &Config{
		Project: ProjectConfig{
			Name:     "acoustix",
			LogLevel: "info",
		},
		Venv: VenvConfig{
			Path:         "venv",
			DeployPath:   "venv-deploy",
			Requirements: "requirements.txt",
			Python:       "python3",
		},
		Format: FormatConfig{
			Paths: []string{"acoustix", "tests"},
		},
		Lint: LintConfig{
			Paths:    []string{"acoustix", "tests"},
			MinScore: 9.9,
		},
		Test: TestConfig{
			Paths:       []string{"tests"},
			Exclude:     []string{"tests/benchmarks"},
			CoverSource: "acoustix",
			MinCoverage: 95,
		},
		Docker: DockerConfig{
			Container:  "acoustix-test",
			Image:      "acoustix-test",
			Dockerfile: "Dockerfile.test",
			Context:    ".",
		},
		Package: PackageConfig{
			DistDir: "dist",
			Upload: UploadConfig{
				Enabled: false,
			},
		},
		State: StateConfig{
			Dir: ".devctl",
		},
	}
}
