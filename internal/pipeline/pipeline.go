// Package pipeline executes fixed ordered sequences of steps with an explicit
// per-step failure policy.
package pipeline

import "context"

// Policy controls what happens when a step fails.
type Policy int

const (
	// AbortOnFailure stops the pipeline at the first non-zero step.
	AbortOnFailure Policy = iota
	// ContinueOnFailure records the failure and moves on. Used for teardown
	// steps that may act on resources that do not exist yet.
	ContinueOnFailure
)

func (p Policy) String() string {
	if p == ContinueOnFailure {
		return "continue-on-failure"
	}
	return "abort-on-failure"
}

// Step is one external-collaborator invocation within a pipeline.
type Step struct {
	Name   string
	Policy Policy

	// Skip marks a step that stays visible in the pipeline but is not
	// executed, e.g. a feature-flagged rollout step.
	Skip       bool
	SkipReason string

	Run func(ctx context.Context) error
}

// Pipeline is the fixed ordered sequence of steps bound to a selector.
type Pipeline struct {
	Name  string
	Steps []Step
}
