//go:build unit

package fuzzy

import (
	"errors"
	"testing"
)

func mustPattern(t *testing.T, text string) *Pattern {
	t.Helper()
	p, err := NewPattern(text)
	if err != nil {
		t.Fatalf("NewPattern(%q) error = %v", text, err)
	}
	return p
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		actual  string
		want    bool
	}{
		{"empty against empty", "", "", true},
		{"empty against newline", "", "\n", true},
		{"newline against newline", "\n", "\n", true},
		{"single line equal", "a", "a", true},
		{"single line different", "a", "b", false},
		{"leading wildcard", "...\na", "a", true},
		{"surrounding wildcards", "...\na\n...", "a", true},
		{"trailing wildcard", "a\n...", "a", true},
		{"trailing wildcard extra lines", "a\n...", "a\nb\nc", true},
		{"wildcard matches zero lines", "a\n...\nd", "a\nd", true},
		{"wildcard matches several lines", "a\n...\nd", "a\nb\nc\nd", true},
		{"wildcard target never found", "a\n...\nd", "a\nb\nc", false},
		{"two wildcards", "a\n...\nc\n...\ne", "a\nb\nc\nd\ne", true},
		{"wildcard then suffix form", "a\n...\n...b", "a\nb", true},
		{"prefix wildcard line", "...world", "hello world", true},
		{"prefix wildcard no match", "...world", "world hello", false},
		{"suffix wildcard line", "hello...", "hello world", true},
		{"suffix wildcard no match", "hello...", "say hello", false},
		{"both-ends wildcard line", "...llo wo...", "hello world", true},
		{"both-ends wildcard no match", "...xyz...", "hello world", false},
		{"exact multi line", "a\nb\nc", "a\nb\nc", true},
		{"exact multi line mismatch", "a\nb\nc", "a\nx\nc", false},
		{"lines trimmed before comparison", "a\nb", "  a  \n\tb\t", true},
		{"outer whitespace ignored", "a", "\n\n  a  \n\n", true},
		{"case sensitive", "Hello", "hello", false},
		{"wildcard only matches empty", "...", "", true},
		{"wildcard only matches anything", "...", "x\ny\nz", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustPattern(t, tt.pattern)
			if got := p.Match(tt.actual); got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.pattern, tt.actual, got, tt.want)
			}
		})
	}
}

func TestMatchFirstCandidateWins(t *testing.T) {
	// The wildcard scan stops at the first satisfying line and never
	// reconsiders, so a later occurrence cannot rescue a failed suffix.
	p := mustPattern(t, "...\nb\nc")
	if p.Match("x\nb\nd\nb\nc") {
		t.Error("expected greedy scan to bind the first \"b\" and fail")
	}
	if !p.Match("x\nb\nc") {
		t.Error("expected pattern to match when first \"b\" is the right one")
	}
}

func TestNewPatternConsecutiveWildcards(t *testing.T) {
	_, err := NewPattern("a\n...\n...\nb")
	if err == nil {
		t.Fatal("NewPattern() expected error for consecutive wildcard lines")
	}
	var perr *PatternError
	if !errors.As(err, &perr) {
		t.Errorf("NewPattern() error = %T, want *PatternError", err)
	}
}

func TestNewPatternLinesEdgeBlanksStripped(t *testing.T) {
	p, err := NewPatternLines([]string{"", "  ", "a", "", "b", "", ""})
	if err != nil {
		t.Fatalf("NewPatternLines() error = %v", err)
	}
	got := p.Lines()
	want := []string{"a", "", "b"}
	if len(got) != len(want) {
		t.Fatalf("Lines() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Lines()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNewPatternEmpty(t *testing.T) {
	p := mustPattern(t, "")
	if !p.IsEmpty() {
		t.Error("NewPattern(\"\") should produce an empty pattern")
	}
	p = mustPattern(t, "  \n \n")
	if !p.IsEmpty() {
		t.Error("blank-only text should produce an empty pattern")
	}
}

func TestPatternString(t *testing.T) {
	p := mustPattern(t, "\na\n  b  \n")
	if got := p.String(); got != "a\nb" {
		t.Errorf("String() = %q, want %q", got, "a\nb")
	}
}
