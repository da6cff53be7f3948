package workflow

import (
	"fmt"
	"strings"
)

// ValidationResult holds the outcome of the static validation pass.
// Errors block execution; warnings do not.
type ValidationResult struct {
	Valid    bool     `json:"valid" yaml:"valid"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Validate performs static checks over a workflow without executing anything.
// All errors are collected and reported together, not just the first.
func Validate(wf *Workflow) ValidationResult {
	result := ValidationResult{}

	if strings.TrimSpace(wf.Name) == "" {
		result.Errors = append(result.Errors, "workflow name is required")
	}

	if len(wf.Steps) == 0 {
		result.Errors = append(result.Errors, "workflow must contain at least one step")
	}

	env := wf.EnvStrings()

	// Variables that can be resolved at each point in the step list: env keys
	// plus the outputs declared by preceding steps. Templating is lexical, so
	// this reference check is best-effort.
	known := make(map[string]bool, len(env))
	for k := range env {
		known[k] = true
	}

	seenNames := make(map[string]bool)

	for i, step := range wf.Steps {
		label := step.Name
		if label == "" {
			label = fmt.Sprintf("step %d", i+1)
		} else {
			label = fmt.Sprintf("step %d (%s)", i+1, label)
		}

		if strings.TrimSpace(step.Run) == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: run command is required", label))
		}

		if step.Retries < 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: retries must not be negative", label))
		}

		if step.Timeout < 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: timeout must not be negative", label))
		}

		if step.Name != "" {
			if seenNames[step.Name] {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: duplicate step name %q", label, step.Name))
			}
			seenNames[step.Name] = true
		}

		if step.Output != "" {
			if _, shadows := env[step.Output]; shadows {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: output %q shadows an env variable", label, step.Output))
			}
		}

		for _, ref := range templateRefs(step.When) {
			if !known[ref] {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: when references %q, which no env key or preceding step output provides", label, ref))
			}
		}
		for _, ref := range templateRefs(step.Run) {
			if !known[ref] {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: run references %q, which no env key or preceding step output provides", label, ref))
			}
		}

		if step.Output != "" {
			known[step.Output] = true
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}
