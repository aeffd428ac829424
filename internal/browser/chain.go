package browser

import (
	"fmt"
	"strings"
)

// StepKind identifies how one link of a selector chain resolves.
type StepKind string

const (
	StepCSS         StepKind = "css"
	StepRole        StepKind = "role"
	StepPlaceholder StepKind = "placeholder"
	StepNth         StepKind = "nth"
)

// Step is one link of a selector chain. Only the fields relevant to Kind are set.
type Step struct {
	Kind     StepKind `json:"kind"`
	Selector string   `json:"selector,omitempty"`
	Role     string   `json:"role,omitempty"`
	Name     string   `json:"name,omitempty"`
	Exact    bool     `json:"exact,omitempty"`
	Index    int      `json:"index,omitempty"`
}

// Chain is the selector path of a locator, applied left to right from the
// document root. Engines without a native locator model resolve it themselves.
type Chain []Step

// With returns a new chain with step appended; the receiver is not modified.
func (c Chain) With(step Step) Chain {
	out := make(Chain, len(c), len(c)+1)
	copy(out, c)
	return append(out, step)
}

// String renders the chain in Playwright's selector notation.
func (c Chain) String() string {
	parts := make([]string, 0, len(c))
	for _, s := range c {
		switch s.Kind {
		case StepCSS:
			parts = append(parts, s.Selector)
		case StepRole:
			if s.Name == "" {
				parts = append(parts, "role="+s.Role)
				continue
			}
			suffix := "i"
			if s.Exact {
				suffix = "s"
			}
			parts = append(parts, fmt.Sprintf("role=%s[name=%q%s]", s.Role, s.Name, suffix))
		case StepPlaceholder:
			parts = append(parts, fmt.Sprintf("placeholder=%q", s.Name))
		case StepNth:
			parts = append(parts, fmt.Sprintf("nth=%d", s.Index))
		}
	}
	return strings.Join(parts, " >> ")
}

// NormalizeSpace collapses runs of whitespace and trims the ends, the way
// rendered text is compared.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// MatchName compares an accessible name the way Playwright does: exact
// matching is whitespace-normalised equality, otherwise a case-insensitive
// substring test.
func MatchName(actual, want string, exact bool) bool {
	actual = NormalizeSpace(actual)
	want = NormalizeSpace(want)
	if exact {
		return actual == want
	}
	return strings.Contains(strings.ToLower(actual), strings.ToLower(want))
}

// PickIndex resolves an nth index against n matches. Negative indexes count
// from the end. ok is false when the index is out of range.
func PickIndex(index, n int) (int, bool) {
	if index < 0 {
		index += n
	}
	if index < 0 || index >= n {
		return 0, false
	}
	return index, true
}
