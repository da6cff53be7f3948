package workflow

import (
	"strings"
)

// Scope is the accumulating key-value variable store used for template
// substitution across steps. Keys are case-sensitive and last write wins;
// insertion order is preserved for diagnostics.
type Scope struct {
	keys   []string
	values map[string]string
}

// NewScope creates an empty scope
func NewScope() *Scope {
	return &Scope{values: make(map[string]string)}
}

// Set stores a value under key, overwriting any previous value
func (s *Scope) Set(key, value string) {
	if _, exists := s.values[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Get returns the value for key and whether it is present
func (s *Scope) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Keys returns the variable names in insertion order
func (s *Scope) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Snapshot returns a copy of the current variables
func (s *Scope) Snapshot() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Expand replaces every {{ identifier }} marker in template with the current
// value of identifier, or an empty string when absent. Whitespace around the
// identifier is ignored. The scan is a single left-to-right pass: substituted
// values are never re-expanded, so a variable whose value contains markers
// cannot trigger further substitution.
func (s *Scope) Expand(template string) string {
	if !strings.Contains(template, "{{") {
		return template
	}

	var out strings.Builder
	rest := template
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			out.WriteString(rest)
			break
		}
		end := strings.Index(rest[start:], "}}")
		if end < 0 {
			// Unterminated marker, copy the remainder literally
			out.WriteString(rest)
			break
		}
		end += start

		out.WriteString(rest[:start])
		name := strings.TrimSpace(rest[start+2 : end])
		out.WriteString(s.values[name])
		rest = rest[end+2:]
	}
	return out.String()
}

// templateRefs returns the identifiers referenced by {{ }} markers in
// template, in order of appearance, duplicates included.
func templateRefs(template string) []string {
	var refs []string
	rest := template
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			break
		}
		end := strings.Index(rest[start:], "}}")
		if end < 0 {
			break
		}
		end += start

		name := strings.TrimSpace(rest[start+2 : end])
		if name != "" {
			refs = append(refs, name)
		}
		rest = rest[end+2:]
	}
	return refs
}
