// Package fuzzy implements the line-oriented fuzzy matching language used to
// compare expected output patterns against captured command output.
package fuzzy

import (
	"fmt"
	"strings"
)

// Wildcard is the marker usable inside a pattern line. On a line of its own
// it matches zero or more actual lines. At the start of a line it matches any
// line ending with the remaining text; at the end of a line it matches any
// line starting with the preceding text. A line may use both forms at once.
const Wildcard = "..."

// PatternError reports an invalid pattern construction.
type PatternError struct {
	Reason string
}

// Error implements the error interface
func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern: %s", e.Reason)
}

// Pattern is an immutable, ordered sequence of expected output lines.
// Leading and trailing blank lines are stripped at construction and every
// line is trimmed, matching what Match expects of its input.
type Pattern struct {
	lines []string
}

// NewPattern builds a Pattern from a block of text. It returns a
// *PatternError if the text contains the wildcard marker on two consecutive
// lines, which would otherwise match silently.
func NewPattern(text string) (*Pattern, error) {
	if strings.TrimSpace(text) == "" {
		return &Pattern{}, nil
	}
	return NewPatternLines(strings.Split(text, "\n"))
}

// NewPatternLines builds a Pattern from individual lines. Blank lines at
// either edge are dropped, interior blank lines are kept, and each line is
// trimmed before validation.
func NewPatternLines(lines []string) (*Pattern, error) {
	trimmed := make([]string, len(lines))
	for i, l := range lines {
		trimmed[i] = strings.TrimSpace(l)
	}

	// Strip blank edges, keeping interior blanks intact.
	start := 0
	for start < len(trimmed) && trimmed[start] == "" {
		start++
	}
	end := len(trimmed)
	for end > start && trimmed[end-1] == "" {
		end--
	}
	trimmed = trimmed[start:end]

	for i := 1; i < len(trimmed); i++ {
		if trimmed[i] == Wildcard && trimmed[i-1] == Wildcard {
			return nil, &PatternError{
				Reason: fmt.Sprintf("can't have %q on two consecutive lines", Wildcard),
			}
		}
	}
	return &Pattern{lines: trimmed}, nil
}

// Lines returns the pattern's lines. The returned slice must not be modified.
func (p *Pattern) Lines() []string {
	return p.lines
}

// IsEmpty reports whether the pattern contains no lines. An empty pattern is
// how a specification states that a stream must produce no output at all,
// which callers check separately from Match.
func (p *Pattern) IsEmpty() bool {
	return len(p.lines) == 0
}

// String returns the pattern re-joined into a block of text.
func (p *Pattern) String() string {
	return strings.Join(p.lines, "\n")
}

// Match reports whether actual conforms to the pattern. The actual text is
// trimmed of outer whitespace, split into lines, and each line trimmed before
// comparison; comparison is case sensitive.
//
// Matching is greedy and never backtracks: a standalone wildcard line skips
// forward to the first actual line satisfying the next pattern line, and a
// mismatch on any non-wildcard line fails immediately. Exhausting either
// sequence ends the comparison successfully.
func (p *Pattern) Match(actual string) bool {
	slines := splitTrimmed(actual)

	pi, si := 0, 0
	for pi < len(p.lines) && si < len(slines) {
		switch {
		case p.lines[pi] == Wildcard:
			pi++
			if pi == len(p.lines) {
				// A trailing wildcard matches everything remaining.
				return true
			}
			// The constructor rejects consecutive wildcards, so the
			// next pattern line is concrete: scan for it.
			for si < len(slines) && !matchLine(p.lines[pi], slines[si]) {
				si++
			}
			if si == len(slines) {
				return false
			}
		case matchLine(p.lines[pi], slines[si]):
			pi++
			si++
		default:
			return false
		}
	}
	return true
}

// matchLine reports whether a single actual line satisfies a single pattern
// line, honoring wildcard markers at either or both ends.
func matchLine(p, s string) bool {
	if p == s {
		return true
	}
	prefix := strings.HasPrefix(p, Wildcard)
	suffix := strings.HasSuffix(p, Wildcard)
	switch {
	case prefix && suffix && len(p) >= 2*len(Wildcard):
		return strings.Contains(s, p[len(Wildcard):len(p)-len(Wildcard)])
	case prefix:
		return strings.HasSuffix(s, p[len(Wildcard):])
	case suffix:
		return strings.HasPrefix(s, p[:len(p)-len(Wildcard)])
	}
	return false
}

// splitTrimmed normalizes captured text for comparison: outer whitespace
// stripped, then split into individually trimmed lines. Empty text yields no
// lines at all rather than a single empty line.
func splitTrimmed(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}
