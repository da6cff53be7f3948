package workflow

import (
	"strings"
	"time"
)

// Status represents the terminal state of a step
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// FailureKind classifies why a step failed
type FailureKind string

const (
	// FailureExit means the command ran and exited non-zero
	FailureExit FailureKind = "exit"
	// FailureLaunch means the command could not be started at all
	FailureLaunch FailureKind = "launch"
	// FailureTimeout means an attempt exceeded its bound or was cancelled
	FailureTimeout FailureKind = "timeout"
)

// maxStreamSnippet bounds the captured stdout/stderr stored on a StepResult
const maxStreamSnippet = 4096

// StepResult captures the outcome of executing a single step
type StepResult struct {
	Name       string      `json:"name" yaml:"name"`
	Status     Status      `json:"status" yaml:"status"`
	DurationMs int64       `json:"durationMs" yaml:"durationMs"`
	Attempts   int         `json:"attempts" yaml:"attempts"`
	Stdout     string      `json:"stdout,omitempty" yaml:"stdout,omitempty"`
	Stderr     string      `json:"stderr,omitempty" yaml:"stderr,omitempty"`
	Error      string      `json:"error,omitempty" yaml:"error,omitempty"`
	Failure    FailureKind `json:"failureKind,omitempty" yaml:"failureKind,omitempty"`
}

// WorkflowResult captures the outcome of one workflow invocation. It is
// created fresh per run and never persisted by the engine.
type WorkflowResult struct {
	Workflow   string       `json:"workflow" yaml:"workflow"`
	Success    bool         `json:"success" yaml:"success"`
	DryRun     bool         `json:"dryRun,omitempty" yaml:"dryRun,omitempty"`
	Steps      []StepResult `json:"steps" yaml:"steps"`
	StartedAt  time.Time    `json:"startedAt" yaml:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt" yaml:"finishedAt"`
}

// Summary tallies step outcomes for reporting
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
}

// Summarize computes step counts from the result
func (r *WorkflowResult) Summarize() Summary {
	s := Summary{Total: len(r.Steps)}
	for _, step := range r.Steps {
		switch step.Status {
		case StatusSucceeded:
			s.Succeeded++
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		}
	}
	return s
}

// snippet trims surrounding whitespace and caps the text stored on a result
func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStreamSnippet {
		return s[:maxStreamSnippet]
	}
	return s
}
