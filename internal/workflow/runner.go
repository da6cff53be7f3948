package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/macflow/macflow/internal/errors"
	"github.com/macflow/macflow/internal/logger"
)

// RunOptions controls a single workflow invocation
type RunOptions struct {
	// DryRun simulates step flow without invoking external commands
	DryRun bool

	// Verbose surfaces expanded commands and scope state as log output.
	// It does not alter control flow.
	Verbose bool
}

// Runner drives the step executor over a workflow's ordered step list and
// aggregates the results.
type Runner struct {
	runner CommandRunner
}

// NewRunner creates a workflow runner backed by the given command-execution
// collaborator.
func NewRunner(runner CommandRunner) *Runner {
	return &Runner{runner: runner}
}

// Run validates the workflow and, when valid, executes its steps in order.
// Validation failure aborts before any step runs. A failed step stops
// iteration unless it declares continue_on_error; steps never reached are
// absent from the result. Overall success is true iff no step failed.
func (r *Runner) Run(ctx context.Context, wf *Workflow, opts RunOptions) (*WorkflowResult, error) {
	validation := Validate(wf)
	for _, warning := range validation.Warnings {
		logger.LogWarn("Workflow validation warning", map[string]interface{}{
			"workflow": wf.Name,
			"warning":  warning,
		})
	}
	if !validation.Valid {
		return nil, fmt.Errorf("%w: %s", errors.ErrWorkflowInvalid, strings.Join(validation.Errors, "; "))
	}

	result := &WorkflowResult{
		Workflow:  wf.Name,
		Success:   true,
		DryRun:    opts.DryRun,
		StartedAt: time.Now(),
	}

	scope := NewScope()
	for k, v := range wf.EnvStrings() {
		scope.Set(k, v)
	}

	executor := NewStepExecutor(r.runner, scope, opts.DryRun, opts.Verbose)

	logger.LogInfo("Starting workflow execution", map[string]interface{}{
		"workflow": wf.Name,
		"steps":    len(wf.Steps),
		"dry_run":  opts.DryRun,
	})

	for i, step := range wf.Steps {
		logger.LogInfo(fmt.Sprintf("Executing step %d/%d: %s", i+1, len(wf.Steps), step.Label()), nil)

		stepResult := executor.Execute(ctx, step)
		result.Steps = append(result.Steps, stepResult)

		switch stepResult.Status {
		case StatusFailed:
			result.Success = false
			if !step.ContinueOnError {
				logger.LogError("Step failed, aborting workflow", fmt.Errorf("%s", stepResult.Error), map[string]interface{}{
					"workflow": wf.Name,
					"step":     stepResult.Name,
					"attempts": stepResult.Attempts,
				})
				result.FinishedAt = time.Now()
				return result, nil
			}
			logger.LogWarn("Step failed, continuing", map[string]interface{}{
				"workflow": wf.Name,
				"step":     stepResult.Name,
				"error":    stepResult.Error,
			})
		case StatusSucceeded:
			logger.LogInfo(fmt.Sprintf("Completed step %d/%d: %s", i+1, len(wf.Steps), step.Label()), map[string]interface{}{
				"attempts": stepResult.Attempts,
			})
		}
	}

	result.FinishedAt = time.Now()
	logger.LogInfo("Workflow execution finished", map[string]interface{}{
		"workflow": wf.Name,
		"success":  result.Success,
	})
	return result, nil
}
