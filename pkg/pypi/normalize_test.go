package pypi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercase unchanged",
			input:    "requests",
			expected: "requests",
		},
		{
			name:     "uppercase lowered",
			input:    "Django",
			expected: "django",
		},
		{
			name:     "underscores become hyphens",
			input:    "typing_extensions",
			expected: "typing-extensions",
		},
		{
			name:     "dots become hyphens",
			input:    "zope.interface",
			expected: "zope-interface",
		},
		{
			name:     "mixed separator run collapses",
			input:    "foo-_.bar",
			expected: "foo-bar",
		},
		{
			name:     "repeated separators collapse",
			input:    "foo__bar--baz",
			expected: "foo-bar-baz",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  Pillow  ",
			expected: "pillow",
		},
		{
			name:     "leading separator preserved as hyphen",
			input:    ".hidden",
			expected: "-hidden",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected bool
	}{
		{
			name:     "case insensitive match",
			a:        "PyYAML",
			b:        "pyyaml",
			expected: true,
		},
		{
			name:     "separator styles match",
			a:        "typing_extensions",
			b:        "typing.extensions",
			expected: true,
		},
		{
			name:     "different projects",
			a:        "requests",
			b:        "request",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Equal(tt.a, tt.b))
		})
	}
}
