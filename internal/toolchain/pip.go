package toolchain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/acoustix/devctl/internal/execx"
	"github.com/acoustix/devctl/internal/pipeline"
)

func (t *Toolchain) upgradePipStep(v Venv) pipeline.Step {
	return pipeline.Step{
		Name: "pip-upgrade",
		Run: func(ctx context.Context) error {
			return t.runner.Run(ctx, execx.Command{
				Name: v.Pip(),
				Args: []string{"install", "--upgrade", "pip"},
			})
		},
	}
}

func (t *Toolchain) installRequirementsStep(v Venv) pipeline.Step {
	return pipeline.Step{
		Name: "pip-install-requirements",
		Run: func(ctx context.Context) error {
			return t.runner.Run(ctx, execx.Command{
				Name: v.Pip(),
				Args: []string{"install", "-r", t.cfg.Venv.Requirements},
			})
		},
	}
}

func (t *Toolchain) installToolsStep(name string, v Venv, packages ...string) pipeline.Step {
	return pipeline.Step{
		Name: name,
		Run: func(ctx context.Context) error {
			args := append([]string{"install", "--upgrade"}, packages...)
			return t.runner.Run(ctx, execx.Command{Name: v.Pip(), Args: args})
		},
	}
}

// installWheelStep installs the freshly built binary artifact into the deploy
// environment. The wheel path is resolved at run time because the build step
// that produces it precedes this one in the same pipeline.
func (t *Toolchain) installWheelStep(v Venv) pipeline.Step {
	return pipeline.Step{
		Name: "pip-install-wheel",
		Run: func(ctx context.Context) error {
			wheel, err := newestWheel(t.cfg.Package.DistDir)
			if err != nil {
				return err
			}
			return t.runner.Run(ctx, execx.Command{
				Name: v.Pip(),
				Args: []string{"install", wheel},
			})
		},
	}
}

func newestWheel(distDir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(distDir, "*.whl"))
	if err != nil {
		return "", fmt.Errorf("glob wheels in %s: %w", distDir, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no wheel found in %s", distDir)
	}

	newest := matches[0]
	var newestMod int64
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); mod > newestMod {
			newest = m
			newestMod = mod
		}
	}
	return newest, nil
}
