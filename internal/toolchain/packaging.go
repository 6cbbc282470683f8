package toolchain

import (
	"context"
	"path/filepath"

	"github.com/acoustix/devctl/internal/execx"
	"github.com/acoustix/devctl/internal/pipeline"
)

func (t *Toolchain) buildDistStep(v Venv) pipeline.Step {
	return pipeline.Step{
		Name: "build-dist",
		Run: func(ctx context.Context) error {
			return t.runner.Run(ctx, execx.Command{
				Name: v.Python(),
				Args: []string{"-m", "build", "--sdist", "--wheel", "--outdir", t.cfg.Package.DistDir},
			})
		},
	}
}

// uploadStep publishes the built distributions to the configured package
// index. It stays in the pipeline but is skipped until the index rollout is
// complete and package.upload.enabled is set.
func (t *Toolchain) uploadStep(v Venv) pipeline.Step {
	step := pipeline.Step{
		Name: "upload",
		Run: func(ctx context.Context) error {
			args := []string{"upload"}
			if repo := t.cfg.Package.Upload.Repository; repo != "" {
				args = append(args, "--repository-url", repo)
			}
			args = append(args, filepath.Join(t.cfg.Package.DistDir, "*"))
			return t.runner.Run(ctx, execx.Command{
				Name: v.Bin("twine"),
				Args: args,
			})
		},
	}
	if !t.cfg.Package.Upload.Enabled {
		step.Skip = true
		step.SkipReason = "package.upload.enabled is false"
	}
	return step
}
