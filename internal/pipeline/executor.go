package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/acoustix/devctl/internal/log"
)

// Executor runs pipelines strictly sequentially: no step starts before its
// predecessor completes.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor creates an Executor.
func NewExecutor() *Executor {
	return &Executor{logger: log.WithComponent("pipeline")}
}

// Run executes the pipeline's steps in order and returns the recorded result.
// The first failing abort-on-failure step stops execution; every remaining
// step is recorded as not reached. Continue-on-failure steps log their
// failure and execution proceeds.
func (e *Executor) Run(ctx context.Context, p Pipeline) *Result {
	logger := e.logger.With("pipeline", p.Name)
	logger.Info("pipeline started", "steps", len(p.Steps))

	res := &Result{
		Pipeline: p.Name,
		Steps:    make([]StepResult, 0, len(p.Steps)),
		Started:  time.Now(),
	}
	defer func() {
		res.Finished = time.Now()
	}()

	for i, step := range p.Steps {
		if step.Skip {
			logger.Info("step skipped", "step", step.Name, "reason", step.SkipReason)
			res.Steps = append(res.Steps, StepResult{Name: step.Name, Status: StatusSkipped})
			continue
		}

		if err := ctx.Err(); err != nil {
			logger.Warn("pipeline cancelled", "step", step.Name)
			res.Steps = append(res.Steps, StepResult{
				Name:    step.Name,
				Status:  StatusFailed,
				Err:     &StepError{Pipeline: p.Name, Step: step.Name, Err: err},
				aborted: true,
			})
			e.markNotReached(res, p.Steps[i+1:])
			return res
		}

		logger.Info("step started", "step", step.Name, "policy", step.Policy.String())
		start := time.Now()
		err := step.Run(ctx)
		elapsed := time.Since(start)

		if err == nil {
			logger.Info("step succeeded", "step", step.Name, "duration", elapsed)
			res.Steps = append(res.Steps, StepResult{Name: step.Name, Status: StatusSucceeded, Duration: elapsed})
			continue
		}

		stepErr := &StepError{Pipeline: p.Name, Step: step.Name, Err: err}

		if step.Policy == ContinueOnFailure {
			logger.Warn("step failed (tolerated)", "step", step.Name, "error", err)
			res.Steps = append(res.Steps, StepResult{Name: step.Name, Status: StatusFailed, Err: stepErr, Duration: elapsed})
			continue
		}

		logger.Error("step failed", "step", step.Name, "error", err)
		res.Steps = append(res.Steps, StepResult{Name: step.Name, Status: StatusFailed, Err: stepErr, Duration: elapsed, aborted: true})
		e.markNotReached(res, p.Steps[i+1:])
		return res
	}

	logger.Info("pipeline completed")
	return res
}

func (e *Executor) markNotReached(res *Result, remaining []Step) {
	for _, step := range remaining {
		res.Steps = append(res.Steps, StepResult{Name: step.Name, Status: StatusNotReached})
	}
}
