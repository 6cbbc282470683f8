package pipeline

import (
	"fmt"
	"time"
)

// StepStatus describes how a step ended.
type StepStatus string

const (
	StatusSucceeded  StepStatus = "succeeded"
	StatusFailed     StepStatus = "failed"
	StatusSkipped    StepStatus = "skipped"
	StatusNotReached StepStatus = "not_reached"
)

// StepResult records the observed outcome of a single step.
type StepResult struct {
	Name     string
	Status   StepStatus
	Err      error
	Duration time.Duration

	// aborted marks a failure that stopped the pipeline, as opposed to a
	// tolerated continue-on-failure one.
	aborted bool
}

// Result records the outcome of one pipeline execution.
type Result struct {
	Pipeline string
	Steps    []StepResult
	Started  time.Time
	Finished time.Time
}

// Failed reports whether any abort-policy step failed.
func (r *Result) Failed() bool {
	return r.FirstFailure() != nil
}

// FirstFailure returns the step that aborted the pipeline, or nil when the
// pipeline ran to completion. Continue-on-failure steps never abort.
func (r *Result) FirstFailure() *StepResult {
	for i := range r.Steps {
		if r.Steps[i].Status == StatusFailed && r.Steps[i].aborted {
			return &r.Steps[i]
		}
	}
	return nil
}

// StepError wraps a step failure with its pipeline and step names.
type StepError struct {
	Pipeline string
	Step     string
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("pipeline %s: step %s: %v", e.Pipeline, e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
