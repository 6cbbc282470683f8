// Package doctor validates devctl configuration and the local tool setup.
package doctor

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/acoustix/devctl/internal/config"
)

// Result holds the outcome of a validation run.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`
}

// Issue describes a single validation error or warning.
type Issue struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
}

// Doctor validates configuration against the tools installed on this machine.
type Doctor struct {
	cfg *config.Config

	// lookPath is swappable so tests can control tool availability.
	lookPath func(string) (string, error)
}

// New creates a Doctor from a loaded config.
func New(cfg *config.Config) *Doctor {
	return &Doctor{cfg: cfg, lookPath: exec.LookPath}
}

// Validate runs all checks and returns a result.
func (d *Doctor) Validate() *Result {
	r := &Result{Valid: true}

	d.checkThresholds(r)
	d.checkInterpreter(r)
	d.checkContainerEngine(r)
	d.checkReferencedFiles(r)
	d.checkUploadConfig(r)

	r.Valid = len(r.Errors) == 0
	return r
}

func (d *Doctor) addError(r *Result, category, field, msg string) {
	r.Errors = append(r.Errors, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) addWarning(r *Result, category, field, msg string) {
	r.Warnings = append(r.Warnings, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) checkThresholds(r *Result) {
	if d.cfg.Lint.MinScore < 5 {
		d.addWarning(r, "thresholds", "lint.min_score",
			fmt.Sprintf("lint gate of %g is unusually permissive", d.cfg.Lint.MinScore))
	}
	if d.cfg.Test.MinCoverage < 50 {
		d.addWarning(r, "thresholds", "test.min_coverage",
			fmt.Sprintf("coverage gate of %d%% is unusually permissive", d.cfg.Test.MinCoverage))
	}
}

func (d *Doctor) checkInterpreter(r *Result) {
	if _, err := d.lookPath(d.cfg.Venv.Python); err != nil {
		d.addError(r, "tools", "venv.python",
			fmt.Sprintf("interpreter %q not found on PATH", d.cfg.Venv.Python))
	}
}

func (d *Doctor) checkContainerEngine(r *Result) {
	if _, err := d.lookPath("docker"); err != nil {
		d.addWarning(r, "tools", "docker",
			"docker not found on PATH; the docker pipeline will fail")
	}
}

func (d *Doctor) checkReferencedFiles(r *Result) {
	if _, err := os.Stat(d.cfg.Venv.Requirements); err != nil {
		d.addError(r, "files", "venv.requirements",
			fmt.Sprintf("dependency manifest %q not found", d.cfg.Venv.Requirements))
	}
	if _, err := os.Stat(d.cfg.Docker.Dockerfile); err != nil {
		d.addWarning(r, "files", "docker.dockerfile",
			fmt.Sprintf("build file %q not found; the docker pipeline will fail", d.cfg.Docker.Dockerfile))
	}
}

func (d *Doctor) checkUploadConfig(r *Result) {
	if d.cfg.Package.Upload.Enabled && d.cfg.Package.Upload.Repository == "" {
		d.addError(r, "package", "package.upload.repository",
			"upload is enabled but no repository is configured")
	}
}
