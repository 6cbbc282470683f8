package toolchain

import (
	"time"

	"github.com/acoustix/devctl/internal/pipeline"
)

// Local rebuilds the primary environment from scratch and runs every quality
// gate. All steps abort on failure.
func (t *Toolchain) Local() pipeline.Pipeline {
	v := t.PrimaryVenv()
	return pipeline.Pipeline{
		Name: "local",
		Steps: []pipeline.Step{
			t.destroyVenvStep("venv-destroy", v),
			t.createVenvStep("venv-create", v),
			t.upgradePipStep(v),
			t.installRequirementsStep(v),
			t.formatStep(v),
			t.lintStep(v),
			t.pytestStep(v, false),
		},
	}
}

// Test runs the quality gates against the existing environment without
// recreating it, with verbose test output.
func (t *Toolchain) Test() pipeline.Pipeline {
	v := t.PrimaryVenv()
	return pipeline.Pipeline{
		Name: "test",
		Steps: []pipeline.Step{
			t.requireVenvStep(v),
			t.formatStep(v),
			t.lintStep(v),
			t.pytestStep(v, true),
		},
	}
}

// Docker tears down the named container and image, then rebuilds the test
// image with a cache-busting build-arg. Teardown steps tolerate failure so a
// fresh rebuild is always attempted.
func (t *Toolchain) Docker(now time.Time) pipeline.Pipeline {
	return pipeline.Pipeline{
		Name: "docker",
		Steps: []pipeline.Step{
			t.containerStopStep(),
			t.containerRemoveStep(),
			t.imageRemoveStep(),
			t.imageBuildStep(now),
		},
	}
}

// DeployPackage builds the distributions, installs the wheel into a fresh
// secondary environment, and verifies the installed artifact against the test
// suite. The upload step is feature-flagged.
func (t *Toolchain) DeployPackage() pipeline.Pipeline {
	v := t.PrimaryVenv()
	deploy := t.DeployVenv()
	return pipeline.Pipeline{
		Name: "deploy-package",
		Steps: []pipeline.Step{
			t.installToolsStep("pip-install-publish-tools", v, "build", "twine"),
			t.buildDistStep(v),
			t.destroyVenvStep("deploy-venv-destroy", deploy),
			t.createVenvStep("deploy-venv-create", deploy),
			t.installWheelStep(deploy),
			t.installToolsStep("deploy-pip-install-test-tools", deploy, "pytest", "pytest-cov"),
			t.pytestStep(deploy, false),
			t.uploadStep(v),
		},
	}
}
