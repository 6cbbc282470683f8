package toolchain

import (
	"context"
	"strconv"

	"github.com/acoustix/devctl/internal/execx"
	"github.com/acoustix/devctl/internal/pipeline"
)

func (t *Toolchain) formatStep(v Venv) pipeline.Step {
	return pipeline.Step{
		Name: "format",
		Run: func(ctx context.Context) error {
			return t.runner.Run(ctx, execx.Command{
				Name: v.Bin("black"),
				Args: t.cfg.Format.Paths,
			})
		},
	}
}

func (t *Toolchain) lintStep(v Venv) pipeline.Step {
	return pipeline.Step{
		Name: "lint",
		Run: func(ctx context.Context) error {
			args := []string{
				"--fail-under=" + strconv.FormatFloat(t.cfg.Lint.MinScore, 'f', -1, 64),
			}
			args = append(args, t.cfg.Lint.Paths...)
			return t.runner.Run(ctx, execx.Command{
				Name: v.Bin("pylint"),
				Args: args,
			})
		},
	}
}

// pytestStep runs the suite minus the excluded benchmark subset, enforcing the
// configured minimum coverage. verbose enables per-test and info-level output,
// used by the test selector.
func (t *Toolchain) pytestStep(v Venv, verbose bool) pipeline.Step {
	return pipeline.Step{
		Name: "pytest",
		Run: func(ctx context.Context) error {
			var args []string
			if verbose {
				args = append(args, "-v", "--log-cli-level=INFO")
			}
			for _, ex := range t.cfg.Test.Exclude {
				args = append(args, "--ignore="+ex)
			}
			args = append(args,
				"--cov="+t.cfg.Test.CoverSource,
				"--cov-fail-under="+strconv.Itoa(t.cfg.Test.MinCoverage),
			)
			args = append(args, t.cfg.Test.Paths...)
			return t.runner.Run(ctx, execx.Command{
				Name: v.Bin("pytest"),
				Args: args,
			})
		},
	}
}
