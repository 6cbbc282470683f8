// Package toolchain defines the external collaborators devctl sequences
// (venv, pip, black, pylint, pytest, docker, build, twine) and assembles them
// into the fixed pipelines behind each selector.
package toolchain

import (
	"log/slog"

	"github.com/acoustix/devctl/internal/config"
	"github.com/acoustix/devctl/internal/execx"
	"github.com/acoustix/devctl/internal/log"
)

// Toolchain builds pipeline steps from the project configuration. Every step
// invokes exactly one external tool through the runner and observes only its
// exit status.
type Toolchain struct {
	cfg    *config.Config
	runner execx.Runner
	logger *slog.Logger
}

// New creates a Toolchain.
func New(cfg *config.Config, runner execx.Runner) *Toolchain {
	return &Toolchain{
		cfg:    cfg,
		runner: runner,
		logger: log.WithComponent("toolchain"),
	}
}
