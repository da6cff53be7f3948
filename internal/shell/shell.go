// Package shell implements the workflow engine's command-execution boundary
// over os/exec, running step commands through a configurable interpreter.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/macflow/macflow/internal/errors"
	"github.com/macflow/macflow/internal/workflow"
)

// Runner executes commands via an interpreter (`<shell> -c <command>`)
type Runner struct {
	// Shell is the interpreter path, e.g. /bin/sh
	Shell string

	// Dir is the working directory for commands; empty means inherit
	Dir string
}

// New creates a shell-backed command runner
func New(shellPath, dir string) *Runner {
	if shellPath == "" {
		shellPath = "/bin/sh"
	}
	return &Runner{Shell: shellPath, Dir: dir}
}

// Run executes the command, bounded by timeout when positive. A non-zero exit
// is not an error: it is reported through the result's exit code. Errors wrap
// ErrStepTimeout when the bound (or the caller's context) cut the process
// short, and ErrLaunchFailed when the process could not start at all.
func (r *Runner) Run(ctx context.Context, command string, timeout time.Duration) (*workflow.CommandResult, error) {
	runCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, r.Shell, "-c", command)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	// Context expiry wins over whatever exit state the killed process left
	if runCtx.Err() != nil {
		return nil, fmt.Errorf("%w: %s", errors.ErrStepTimeout, runCtx.Err())
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return &workflow.CommandResult{
				ExitCode: exitErr.ExitCode(),
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
			}, nil
		}
		return nil, fmt.Errorf("%w: %s", errors.ErrLaunchFailed, err.Error())
	}

	return &workflow.CommandResult{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}
