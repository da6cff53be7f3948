package workflow

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives a filename-safe identifier from a workflow name
func Slug(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(slug, "-")
}

// Scaffold returns a starter workflow definition for `new`, serialized as
// YAML with a short usage header.
func Scaffold(name, description string) ([]byte, error) {
	if description == "" {
		description = "Describe what this workflow does"
	}

	wf := Workflow{
		Name:        name,
		Description: description,
		Version:     "1.0.0",
		Env: map[string]interface{}{
			"GREETING": "hello",
		},
		Triggers: []Trigger{
			{Manual: true},
		},
		Steps: []Step{
			{
				Name:   "say-hello",
				Run:    "echo {{ GREETING }}",
				Output: "greeting",
			},
			{
				Name: "repeat-it",
				Run:  "echo got: {{ greeting }}",
				When: "{{ greeting }}",
			},
		},
	}

	body, err := yaml.Marshal(&wf)
	if err != nil {
		return nil, err
	}

	header := fmt.Sprintf("# %s workflow definition\n# Run with: macflow run <path>\n", name)
	return append([]byte(header), body...), nil
}
