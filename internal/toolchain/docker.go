package toolchain

import (
	"context"
	"strconv"
	"time"

	"github.com/acoustix/devctl/internal/execx"
	"github.com/acoustix/devctl/internal/pipeline"
)

// Teardown steps tolerate failure: stopping a container that is not running
// or removing an image that does not exist must not block the rebuild.

func (t *Toolchain) containerStopStep() pipeline.Step {
	return pipeline.Step{
		Name:   "container-stop",
		Policy: pipeline.ContinueOnFailure,
		Run: func(ctx context.Context) error {
			return t.runner.Run(ctx, execx.Command{
				Name: "docker",
				Args: []string{"stop", t.cfg.Docker.Container},
			})
		},
	}
}

func (t *Toolchain) containerRemoveStep() pipeline.Step {
	return pipeline.Step{
		Name:   "container-rm",
		Policy: pipeline.ContinueOnFailure,
		Run: func(ctx context.Context) error {
			return t.runner.Run(ctx, execx.Command{
				Name: "docker",
				Args: []string{"rm", t.cfg.Docker.Container},
			})
		},
	}
}

func (t *Toolchain) imageRemoveStep() pipeline.Step {
	return pipeline.Step{
		Name:   "image-rm",
		Policy: pipeline.ContinueOnFailure,
		Run: func(ctx context.Context) error {
			return t.runner.Run(ctx, execx.Command{
				Name: "docker",
				Args: []string{"rmi", t.cfg.Docker.Image},
			})
		},
	}
}

// imageBuildStep rebuilds the test image. The CACHEBUST build-arg carries the
// invocation timestamp so the build never reuses stale layers.
func (t *Toolchain) imageBuildStep(now time.Time) pipeline.Step {
	return pipeline.Step{
		Name: "image-build",
		Run: func(ctx context.Context) error {
			return t.runner.Run(ctx, execx.Command{
				Name: "docker",
				Args: []string{
					"build",
					"-f", t.cfg.Docker.Dockerfile,
					"-t", t.cfg.Docker.Image,
					"--build-arg", "CACHEBUST=" + strconv.FormatInt(now.Unix(), 10),
					t.cfg.Docker.Context,
				},
			})
		},
	}
}
