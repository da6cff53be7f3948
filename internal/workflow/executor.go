package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/macflow/macflow/internal/errors"
	"github.com/macflow/macflow/internal/logger"
)

// CommandResult is what the command-execution collaborator reports back
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// CommandRunner is the pluggable boundary to external process execution.
// Implementations run the command, bounded by timeout when it is positive,
// and return the exit code with captured streams. A non-nil error means the
// process could not be launched, timed out, or was cancelled; it wraps
// errors.ErrLaunchFailed or errors.ErrStepTimeout accordingly.
type CommandRunner interface {
	Run(ctx context.Context, command string, timeout time.Duration) (*CommandResult, error)
}

// StepExecutor runs a single step against the shared scope
type StepExecutor struct {
	runner  CommandRunner
	scope   *Scope
	dryRun  bool
	verbose bool
}

// NewStepExecutor creates an executor bound to a scope
func NewStepExecutor(runner CommandRunner, scope *Scope, dryRun, verbose bool) *StepExecutor {
	return &StepExecutor{
		runner:  runner,
		scope:   scope,
		dryRun:  dryRun,
		verbose: verbose,
	}
}

// guardSatisfied decides whether an expanded `when` value lets the step run.
// Empty (after trimming), the literal "false", and "0" all mean skip.
func guardSatisfied(expanded string) bool {
	v := strings.TrimSpace(expanded)
	return v != "" && v != "false" && v != "0"
}

// Execute runs one step: evaluates its guard, expands its command, and drives
// the attempt loop with up to Retries additional attempts, sleeping the
// configured delay between them.
func (e *StepExecutor) Execute(ctx context.Context, step Step) StepResult {
	result := StepResult{Name: step.Label()}
	started := time.Now()

	if step.When != "" {
		guard := e.scope.Expand(step.When)
		if !guardSatisfied(guard) {
			result.Status = StatusSkipped
			result.DurationMs = time.Since(started).Milliseconds()
			logger.LogInfo("Step skipped", map[string]interface{}{
				"step": result.Name,
				"when": step.When,
			})
			return result
		}
	}

	command := e.scope.Expand(step.Run)
	if e.verbose {
		logger.LogInfo("Expanded step command", map[string]interface{}{
			"step":    result.Name,
			"command": command,
			"scope":   e.scope.Snapshot(),
		})
	}

	if e.dryRun {
		// Simulate success without invoking anything external. The output
		// variable stays unset so downstream templates remain visible
		// instead of partially evaluated.
		result.Status = StatusSucceeded
		result.Attempts = 1
		result.DurationMs = time.Since(started).Milliseconds()
		logger.LogInfo("Step simulated (dry run)", map[string]interface{}{
			"step":    result.Name,
			"command": command,
		})
		return result
	}

	delay := backoff.NewConstantBackOff(time.Duration(step.RetryDelaySeconds()) * time.Second)
	timeout := time.Duration(step.Timeout) * time.Second
	maxAttempts := step.Retries + 1

	var lastRes *CommandResult
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result.Attempts = attempt

		lastRes, lastErr = e.runner.Run(ctx, command, timeout)
		if lastErr == nil && lastRes.ExitCode == 0 {
			result.Status = StatusSucceeded
			result.Stdout = snippet(lastRes.Stdout)
			result.Stderr = snippet(lastRes.Stderr)
			result.DurationMs = time.Since(started).Milliseconds()
			if step.Output != "" {
				e.scope.Set(step.Output, strings.TrimSpace(lastRes.Stdout))
			}
			return result
		}

		if attempt < maxAttempts {
			logger.LogWarn("Step attempt failed, retrying", map[string]interface{}{
				"step":    result.Name,
				"attempt": attempt,
				"error":   attemptError(lastRes, lastErr).Error(),
			})
			select {
			case <-ctx.Done():
				// Interrupted while waiting to retry; fail with what we have
				attempt = maxAttempts
			case <-time.After(delay.NextBackOff()):
			}
		}
	}

	err := attemptError(lastRes, lastErr)
	result.Status = StatusFailed
	result.Error = err.Error()
	result.Failure = classifyFailure(lastErr)
	if lastRes != nil {
		result.Stdout = snippet(lastRes.Stdout)
		result.Stderr = snippet(lastRes.Stderr)
	}
	result.DurationMs = time.Since(started).Milliseconds()
	return result
}

// attemptError normalizes an attempt's outcome into a single error
func attemptError(res *CommandResult, err error) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: exit code %d", errors.ErrStepFailed, res.ExitCode)
}

// classifyFailure tags the failure taxonomy for the result
func classifyFailure(err error) FailureKind {
	switch {
	case err == nil:
		return FailureExit
	case errors.Is(err, errors.ErrStepTimeout):
		return FailureTimeout
	case errors.Is(err, errors.ErrLaunchFailed):
		return FailureLaunch
	default:
		return FailureLaunch
	}
}
