// Package workflow implements the declarative multi-step task runner: the
// workflow model, file loader, static validator, step executor, and the
// sequential runner that aggregates results.
package workflow

import (
	"strings"

	"github.com/spf13/cast"
)

// Workflow represents a parsed workflow definition
type Workflow struct {
	// Name of the workflow (required)
	Name string `mapstructure:"name" yaml:"name" json:"name"`

	// Optional description of the workflow
	Description string `mapstructure:"description" yaml:"description,omitempty" json:"description,omitempty"`

	// Version of the workflow definition
	Version string `mapstructure:"version" yaml:"version,omitempty" json:"version,omitempty"`

	// Variables merged into the initial scope. Values may be any YAML scalar;
	// EnvStrings coerces them to strings for templating.
	Env map[string]interface{} `mapstructure:"env" yaml:"env,omitempty" json:"env,omitempty"`

	// Triggers describe when the workflow is meant to run. They are purely
	// descriptive; scheduling is handled outside the engine.
	Triggers []Trigger `mapstructure:"triggers" yaml:"triggers,omitempty" json:"triggers,omitempty"`

	// Ordered list of steps to execute
	Steps []Step `mapstructure:"steps" yaml:"steps" json:"steps"`

	// SourcePath is the file the workflow was loaded from (not serialized)
	SourcePath string `mapstructure:"-" yaml:"-" json:"-"`
}

// Step represents a single unit of work in a workflow
type Step struct {
	// Human label for the step
	Name string `mapstructure:"name" yaml:"name,omitempty" json:"name,omitempty"`

	// Command template to execute (required). May embed {{ variable }}
	// placeholders resolved against the scope.
	Run string `mapstructure:"run" yaml:"run" json:"run"`

	// Name under which the command's trimmed stdout is stored in the scope
	Output string `mapstructure:"output" yaml:"output,omitempty" json:"output,omitempty"`

	// Conditional guard template. After expansion an empty string, "false"
	// or "0" skips the step.
	When string `mapstructure:"when" yaml:"when,omitempty" json:"when,omitempty"`

	// Number of additional attempts after the first failure
	Retries int `mapstructure:"retries" yaml:"retries,omitempty" json:"retries,omitempty"`

	// Seconds to wait between attempts
	RetryDelay *int `mapstructure:"retry_delay" yaml:"retry_delay,omitempty" json:"retry_delay,omitempty"`

	// Seconds bounding a single attempt; 0 means no enforced bound
	Timeout int `mapstructure:"timeout" yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// Whether a failure of this step lets the workflow proceed
	ContinueOnError bool `mapstructure:"continue_on_error" yaml:"continue_on_error,omitempty" json:"continue_on_error,omitempty"`
}

// Trigger describes one way a workflow is intended to be started
type Trigger struct {
	Schedule string `mapstructure:"schedule" yaml:"schedule,omitempty" json:"schedule,omitempty"`
	Manual   bool   `mapstructure:"manual" yaml:"manual,omitempty" json:"manual,omitempty"`
	Event    string `mapstructure:"event" yaml:"event,omitempty" json:"event,omitempty"`
}

// DefaultRetryDelaySeconds is the wait between attempts when a step does not
// set retry_delay.
const DefaultRetryDelaySeconds = 1

// EnvStrings returns the env mapping with all values coerced to strings,
// preserving no particular order.
func (w *Workflow) EnvStrings() map[string]string {
	if len(w.Env) == 0 {
		return nil
	}
	env := make(map[string]string, len(w.Env))
	for k, v := range w.Env {
		env[k] = cast.ToString(v)
	}
	return env
}

// RetryDelaySeconds returns the configured delay between attempts, applying
// the default when unset. Negative values are clamped to zero.
func (s *Step) RetryDelaySeconds() int {
	if s.RetryDelay == nil {
		return DefaultRetryDelaySeconds
	}
	if *s.RetryDelay < 0 {
		return 0
	}
	return *s.RetryDelay
}

// Label returns the step's name, or its trimmed run command when unnamed.
func (s *Step) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return strings.TrimSpace(s.Run)
}

// Describe returns a short human-readable form of the trigger for listings.
func (t Trigger) Describe() string {
	switch {
	case t.Schedule != "":
		return "schedule:" + t.Schedule
	case t.Event != "":
		return "event:" + t.Event
	case t.Manual:
		return "manual"
	default:
		return "unknown"
	}
}
