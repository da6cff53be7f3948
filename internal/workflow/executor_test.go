package workflow

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/macflow/macflow/internal/errors"
)

// fakeRunner implements CommandRunner for tests. Without a custom runFunc it
// emulates a tiny shell: `echo X` prints X, `exit N` exits with code N.
type fakeRunner struct {
	runFunc  func(command string, attempt int) (*CommandResult, error)
	commands []string
}

func (f *fakeRunner) Run(_ context.Context, command string, _ time.Duration) (*CommandResult, error) {
	f.commands = append(f.commands, command)
	if f.runFunc != nil {
		return f.runFunc(command, len(f.commands))
	}
	switch {
	case strings.HasPrefix(command, "echo "):
		return &CommandResult{ExitCode: 0, Stdout: strings.TrimPrefix(command, "echo ") + "\n"}, nil
	case strings.HasPrefix(command, "exit "):
		var code int
		fmt.Sscanf(command, "exit %d", &code)
		return &CommandResult{ExitCode: code, Stderr: "boom\n"}, nil
	default:
		return &CommandResult{ExitCode: 0}, nil
	}
}

func zero() *int { i := 0; return &i }

func newTestExecutor(runner *fakeRunner, scope *Scope) *StepExecutor {
	if scope == nil {
		scope = NewScope()
	}
	return NewStepExecutor(runner, scope, false, false)
}

func TestExecute_Succeeded(t *testing.T) {
	runner := &fakeRunner{}
	scope := NewScope()
	exec := newTestExecutor(runner, scope)

	result := exec.Execute(context.Background(), Step{Name: "greet", Run: "echo hello", Output: "msg"})

	if result.Status != StatusSucceeded {
		t.Fatalf("expected succeeded, got %s (%s)", result.Status, result.Error)
	}
	if result.Attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", result.Attempts)
	}
	if result.Stdout != "hello" {
		t.Errorf("expected trimmed stdout snippet, got %q", result.Stdout)
	}
	if v, _ := scope.Get("msg"); v != "hello" {
		t.Errorf("expected output captured into scope, got %q", v)
	}
}

func TestExecute_GuardSkips(t *testing.T) {
	testCases := []struct {
		name string
		when string
		vars map[string]string
		skip bool
	}{
		{"empty expansion", "{{ unset }}", nil, true},
		{"literal false", "false", nil, true},
		{"literal zero", "0", nil, true},
		{"variable expands to false", "{{ flag }}", map[string]string{"flag": "false"}, true},
		{"whitespace only", "   ", nil, true},
		{"truthy value", "yes", nil, false},
		{"variable expands to value", "{{ flag }}", map[string]string{"flag": "1"}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			runner := &fakeRunner{}
			scope := NewScope()
			for k, v := range tc.vars {
				scope.Set(k, v)
			}
			exec := newTestExecutor(runner, scope)

			result := exec.Execute(context.Background(), Step{Name: "s", Run: "echo ran", When: tc.when})

			if tc.skip {
				if result.Status != StatusSkipped {
					t.Fatalf("expected skipped, got %s", result.Status)
				}
				if len(runner.commands) != 0 {
					t.Errorf("skipped step must not invoke the runner, got %v", runner.commands)
				}
				if result.Attempts != 0 || result.Error != "" {
					t.Errorf("skipped step must record no attempts or error: %+v", result)
				}
			} else if result.Status != StatusSucceeded {
				t.Fatalf("expected succeeded, got %s", result.Status)
			}
		})
	}
}

func TestExecute_RunTemplateExpanded(t *testing.T) {
	runner := &fakeRunner{}
	scope := NewScope()
	scope.Set("name", "world")
	exec := newTestExecutor(runner, scope)

	exec.Execute(context.Background(), Step{Run: "echo {{ name }}"})

	if len(runner.commands) != 1 || runner.commands[0] != "echo world" {
		t.Errorf("expected expanded command, got %v", runner.commands)
	}
}

func TestExecute_RetriesExhausted(t *testing.T) {
	runner := &fakeRunner{}
	exec := newTestExecutor(runner, nil)

	result := exec.Execute(context.Background(), Step{
		Name:       "flaky",
		Run:        "exit 1",
		Retries:    2,
		RetryDelay: zero(),
	})

	if result.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", result.Status)
	}
	if result.Attempts != 3 {
		t.Errorf("retries=2 means 3 attempts, got %d", result.Attempts)
	}
	if result.Failure != FailureExit {
		t.Errorf("expected exit failure kind, got %s", result.Failure)
	}
	if !strings.Contains(result.Error, "exit code 1") {
		t.Errorf("expected exit code in error, got %q", result.Error)
	}
	if result.Stderr != "boom" {
		t.Errorf("expected stderr snippet from last attempt, got %q", result.Stderr)
	}
}

func TestExecute_FirstAttemptSucceedsIgnoresRetries(t *testing.T) {
	runner := &fakeRunner{}
	exec := newTestExecutor(runner, nil)

	result := exec.Execute(context.Background(), Step{
		Run:        "echo ok",
		Retries:    5,
		RetryDelay: zero(),
	})

	if result.Status != StatusSucceeded || result.Attempts != 1 {
		t.Errorf("expected exactly 1 attempt, got status=%s attempts=%d", result.Status, result.Attempts)
	}
}

func TestExecute_SucceedsAfterRetry(t *testing.T) {
	runner := &fakeRunner{
		runFunc: func(command string, attempt int) (*CommandResult, error) {
			if attempt < 3 {
				return &CommandResult{ExitCode: 1}, nil
			}
			return &CommandResult{ExitCode: 0, Stdout: "finally\n"}, nil
		},
	}
	scope := NewScope()
	exec := newTestExecutor(runner, scope)

	result := exec.Execute(context.Background(), Step{
		Run:        "flaky-command",
		Output:     "out",
		Retries:    3,
		RetryDelay: zero(),
	})

	if result.Status != StatusSucceeded {
		t.Fatalf("expected succeeded, got %s (%s)", result.Status, result.Error)
	}
	if result.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", result.Attempts)
	}
	if v, _ := scope.Get("out"); v != "finally" {
		t.Errorf("expected output from successful attempt, got %q", v)
	}
}

func TestExecute_LaunchFailureRetriesAndClassifies(t *testing.T) {
	runner := &fakeRunner{
		runFunc: func(command string, attempt int) (*CommandResult, error) {
			return nil, fmt.Errorf("%w: no such shell", errors.ErrLaunchFailed)
		},
	}
	exec := newTestExecutor(runner, nil)

	result := exec.Execute(context.Background(), Step{
		Run:        "whatever",
		Retries:    1,
		RetryDelay: zero(),
	})

	if result.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", result.Status)
	}
	if result.Attempts != 2 {
		t.Errorf("launch failures count as failed attempts, got %d attempts", result.Attempts)
	}
	if result.Failure != FailureLaunch {
		t.Errorf("expected launch failure kind, got %s", result.Failure)
	}
}

func TestExecute_TimeoutClassified(t *testing.T) {
	runner := &fakeRunner{
		runFunc: func(command string, attempt int) (*CommandResult, error) {
			return nil, fmt.Errorf("%w: context deadline exceeded", errors.ErrStepTimeout)
		},
	}
	exec := newTestExecutor(runner, nil)

	result := exec.Execute(context.Background(), Step{Run: "sleep 60", Timeout: 1})

	if result.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", result.Status)
	}
	if result.Failure != FailureTimeout {
		t.Errorf("expected timeout failure kind, got %s", result.Failure)
	}
}

func TestExecute_DryRun(t *testing.T) {
	runner := &fakeRunner{}
	scope := NewScope()
	exec := NewStepExecutor(runner, scope, true, false)

	result := exec.Execute(context.Background(), Step{Name: "s", Run: "echo hi", Output: "o"})

	if result.Status != StatusSucceeded || result.Attempts != 1 {
		t.Errorf("dry run must report success with one attempt: %+v", result)
	}
	if len(runner.commands) != 0 {
		t.Errorf("dry run must not invoke the runner, got %v", runner.commands)
	}
	if _, ok := scope.Get("o"); ok {
		t.Error("dry run must not populate output variables")
	}
}

func TestExecute_DryRunStillEvaluatesGuard(t *testing.T) {
	runner := &fakeRunner{}
	exec := NewStepExecutor(runner, NewScope(), true, false)

	result := exec.Execute(context.Background(), Step{Run: "echo hi", When: "false"})

	if result.Status != StatusSkipped {
		t.Errorf("expected skipped in dry run, got %s", result.Status)
	}
}

func TestGuardSatisfied(t *testing.T) {
	falsy := []string{"", "   ", "false", "0", "\tfalse\n"}
	for _, v := range falsy {
		if guardSatisfied(v) {
			t.Errorf("expected %q to skip", v)
		}
	}
	truthy := []string{"true", "yes", "1", "anything", "FALSE"}
	for _, v := range truthy {
		if !guardSatisfied(v) {
			t.Errorf("expected %q to run", v)
		}
	}
}
