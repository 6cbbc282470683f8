package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/acoustix/devctl/internal/history"
)

func TestFailureBannerNamesPipelineAndStep(t *testing.T) {
	t.Parallel()

	out := FailureBanner("test", "lint")
	if !strings.Contains(out, "pipeline test failed at step lint") {
		t.Fatalf("unexpected banner: %q", out)
	}
}

func TestDoneMarkerStable(t *testing.T) {
	t.Parallel()

	if !strings.Contains(DoneMarker(), "devctl: done") {
		t.Fatalf("unexpected marker: %q", DoneMarker())
	}
}

func TestRenderHistoryEmpty(t *testing.T) {
	t.Parallel()

	out := RenderHistory(nil)
	if !strings.Contains(out, "no recorded runs") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestRenderHistoryIncludesRunsAndSteps(t *testing.T) {
	t.Parallel()

	now := time.Now()
	runs := []history.RunRecord{
		{
			Pipeline: "local",
			Outcome:  history.OutcomeFailure,
			Started:  now.Add(-time.Minute),
			Finished: now,
			Steps: []history.StepRecord{
				{Name: "format", Status: "succeeded"},
				{Name: "lint", Status: "failed", Error: "exit code 16"},
				{Name: "pytest", Status: "not_reached"},
			},
		},
	}

	out := RenderHistory(runs)
	for _, want := range []string{"local", "failure", "format", "lint", "exit code 16", "pytest"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q:\n%s", want, out)
		}
	}
}
