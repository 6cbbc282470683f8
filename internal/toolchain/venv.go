package toolchain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/acoustix/devctl/internal/execx"
	"github.com/acoustix/devctl/internal/pipeline"
)

// Venv is an explicit execution context for an isolated Python environment.
// Tools are addressed by their resolved path under the environment's bin
// directory; nothing mutates the ambient process environment.
type Venv struct {
	Root string
}

// Bin returns the path of a tool installed in the environment.
func (v Venv) Bin(tool string) string {
	return filepath.Join(v.Root, "bin", tool)
}

// Python returns the environment's interpreter path.
func (v Venv) Python() string { return v.Bin("python") }

// Pip returns the environment's pip path.
func (v Venv) Pip() string { return v.Bin("pip") }

// Exists reports whether the environment has been created.
func (v Venv) Exists() bool {
	_, err := os.Stat(v.Python())
	return err == nil
}

// PrimaryVenv returns the environment used by the local and test pipelines.
func (t *Toolchain) PrimaryVenv() Venv {
	return Venv{Root: t.cfg.Venv.Path}
}

// DeployVenv returns the secondary environment used to verify the built wheel.
func (t *Toolchain) DeployVenv() Venv {
	return Venv{Root: t.cfg.Venv.DeployPath}
}

func (t *Toolchain) destroyVenvStep(name string, v Venv) pipeline.Step {
	return pipeline.Step{
		Name: name,
		Run: func(ctx context.Context) error {
			if err := os.RemoveAll(v.Root); err != nil {
				return fmt.Errorf("remove %s: %w", v.Root, err)
			}
			return nil
		},
	}
}

func (t *Toolchain) createVenvStep(name string, v Venv) pipeline.Step {
	return pipeline.Step{
		Name: name,
		Run: func(ctx context.Context) error {
			return t.runner.Run(ctx, execx.Command{
				Name: t.cfg.Venv.Python,
				Args: []string{"-m", "venv", v.Root},
			})
		},
	}
}

// requireVenvStep replaces the original "activate" step: the test pipeline
// reuses an existing environment and must fail when there is none.
func (t *Toolchain) requireVenvStep(v Venv) pipeline.Step {
	return pipeline.Step{
		Name: "venv-check",
		Run: func(ctx context.Context) error {
			if !v.Exists() {
				return fmt.Errorf("virtual environment not found at %s (run 'devctl local' first)", v.Root)
			}
			return nil
		},
	}
}
