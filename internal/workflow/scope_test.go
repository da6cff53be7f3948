package workflow

import (
	"reflect"
	"testing"
)

func TestScope_SetGet(t *testing.T) {
	s := NewScope()

	if _, ok := s.Get("missing"); ok {
		t.Error("expected missing key to be absent")
	}

	s.Set("a", "1")
	s.Set("b", "2")
	s.Set("a", "3") // last write wins, order preserved

	if v, ok := s.Get("a"); !ok || v != "3" {
		t.Errorf("expected a=3, got %q (present=%v)", v, ok)
	}
	if got := s.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("expected keys [a b], got %v", got)
	}
}

func TestScope_CaseSensitive(t *testing.T) {
	s := NewScope()
	s.Set("Key", "upper")
	s.Set("key", "lower")

	if v, _ := s.Get("Key"); v != "upper" {
		t.Errorf("expected Key=upper, got %q", v)
	}
	if v, _ := s.Get("key"); v != "lower" {
		t.Errorf("expected key=lower, got %q", v)
	}
}

func TestScope_Expand(t *testing.T) {
	testCases := []struct {
		name     string
		template string
		vars     map[string]string
		want     string
	}{
		{"simple", "{{x}}", map[string]string{"x": "v"}, "v"},
		{"missing resolves empty", "{{missing}}", nil, ""},
		{"no markers", "no vars", nil, "no vars"},
		{"inner whitespace", "{{  x  }}", map[string]string{"x": "v"}, "v"},
		{"embedded", "a {{x}} b {{y}} c", map[string]string{"x": "1", "y": "2"}, "a 1 b 2 c"},
		{"repeated", "{{x}}{{x}}", map[string]string{"x": "ab"}, "abab"},
		{"unterminated kept literally", "a {{x", map[string]string{"x": "v"}, "a {{x"},
		{"empty marker", "{{}}", nil, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewScope()
			for k, v := range tc.vars {
				s.Set(k, v)
			}
			if got := s.Expand(tc.template); got != tc.want {
				t.Errorf("Expand(%q) = %q, want %q", tc.template, got, tc.want)
			}
		})
	}
}

func TestScope_ExpandNoRecursion(t *testing.T) {
	s := NewScope()
	s.Set("a", "{{b}}")
	s.Set("b", "boom")

	// Substituted content is copied verbatim, never re-expanded
	if got := s.Expand("{{a}}"); got != "{{b}}" {
		t.Errorf("expected literal {{b}}, got %q", got)
	}
}

func TestTemplateRefs(t *testing.T) {
	refs := templateRefs("{{ a }} then {{b}} and {{ a }}")
	if !reflect.DeepEqual(refs, []string{"a", "b", "a"}) {
		t.Errorf("unexpected refs: %v", refs)
	}

	if refs := templateRefs("nothing here"); refs != nil {
		t.Errorf("expected no refs, got %v", refs)
	}
}
