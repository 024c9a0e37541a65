package suggestions

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed ingredients.yaml
var referenceYAML []byte

// Matcher returns reference names whose lower-cased form starts with prefix.
type Matcher interface {
	Match(ctx context.Context, prefix string) ([]string, error)
}

// LoadReference parses the embedded ingredient list.
func LoadReference() ([]string, error) {
	return ParseReference(referenceYAML)
}

func ParseReference(data []byte) ([]string, error) {
	var doc struct {
		Ingredients []string `yaml:"ingredients"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse ingredient reference: %w", err)
	}
	names := make([]string, 0, len(doc.Ingredients))
	for _, n := range doc.Ingredients {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names, nil
}

// ListMatcher matches against an in-memory reference list.
type ListMatcher struct {
	names []string
	lower []string
}

var _ Matcher = (*ListMatcher)(nil)

func NewListMatcher(names []string) *ListMatcher {
	m := &ListMatcher{names: append([]string(nil), names...)}
	m.lower = make([]string, len(names))
	for i, n := range names {
		m.lower[i] = strings.ToLower(n)
	}
	return m
}

func (m *ListMatcher) Match(_ context.Context, prefix string) ([]string, error) {
	return m.match(prefix), nil
}

func (m *ListMatcher) match(prefix string) []string {
	prefix = strings.ToLower(prefix)
	if prefix == "" {
		return nil
	}
	var out []string
	for i, l := range m.lower {
		if strings.HasPrefix(l, prefix) {
			out = append(out, m.names[i])
		}
	}
	return out
}

// CurrentLine returns the lower-cased line being edited: the text before the
// cursor, after its last line break. Out of range cursors are clamped.
func CurrentLine(text string, cursor int) string {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(text) {
		cursor = len(text)
	}
	before := text[:cursor]
	if i := strings.LastIndexByte(before, '\n'); i >= 0 {
		before = before[i+1:]
	}
	return strings.ToLower(before)
}

// Apply replaces the last line of text with name and starts a fresh line.
func Apply(text, name string) string {
	lines := strings.Split(text, "\n")
	lines[len(lines)-1] = name
	return strings.Join(lines, "\n") + "\n"
}

// ParseIngredients splits multi-line input into trimmed, non-blank entries.
func ParseIngredients(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			out = append(out, t)
		}
	}
	return out
}
