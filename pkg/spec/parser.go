package spec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/langtest/langtest/pkg/fuzzy"
)

// ParseError describes a malformed specification. It carries the offending
// line so the source file can be fixed.
type ParseError struct {
	// Line is the 1-based line number within the extracted text.
	Line int
	// Text is the offending line, when one exists.
	Text string
	// Reason describes what went wrong.
	Reason string
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("specification line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("specification line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// Parse turns raw extracted comment text into a Specification. Malformed
// input yields a *ParseError; deciding whether that aborts the whole run or
// just the offending file is up to the caller.
//
// The grammar has two indentation levels: unindented `<name>[,<name>]:`
// lines open one or more groups, and indented `<key>: [<value>]` lines add
// sub-tests to them. The keys `stdout` and `stderr` accept an inline value,
// no value at all (the stream must be empty), or a further-indented block of
// pattern lines. The indentation unit is fixed by the first indented line;
// every indent must be a whole multiple of it.
func Parse(raw string) (*Specification, error) {
	p := &parser{
		lines: dedent(strings.Split(raw, "\n")),
		spec:  &Specification{},
		seen:  make(map[string]bool),
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.spec, nil
}

type parser struct {
	lines []string
	unit  int
	spec  *Specification
	seen  map[string]bool

	// Groups opened by the current header and the sub-test keys seen
	// under it. Multi-name headers share their sub-tests.
	open []*Group
	keys map[string]bool

	// Open stdout/stderr pattern block, if any.
	patKey   string
	patLine  int
	patLines []string
}

func (p *parser) run() error {
	for i, line := range p.lines {
		n := i + 1
		if strings.TrimSpace(line) == "" {
			// Blank lines are structural noise, except inside a
			// pattern block where interior blanks are significant.
			if p.patKey != "" {
				p.patLines = append(p.patLines, "")
			}
			continue
		}

		indent, err := leadingIndent(line)
		if err != nil {
			return &ParseError{Line: n, Text: line, Reason: err.Error()}
		}
		text := line[indent:]

		level := 0
		if indent > 0 {
			if p.unit == 0 {
				p.unit = indent
			}
			if indent%p.unit != 0 {
				return &ParseError{Line: n, Text: line,
					Reason: fmt.Sprintf("indentation of %d is not a multiple of %d", indent, p.unit)}
			}
			level = indent / p.unit
		}

		if level >= 2 {
			if p.patKey == "" {
				return &ParseError{Line: n, Text: line, Reason: "unexpected indentation"}
			}
			p.patLines = append(p.patLines, text)
			continue
		}

		// A header or sub-test line terminates any open pattern block.
		if err := p.closePattern(); err != nil {
			return err
		}
		if level == 0 {
			err = p.openHeader(n, text)
		} else {
			err = p.addSubTest(n, text)
		}
		if err != nil {
			return err
		}
	}
	return p.closePattern()
}

func (p *parser) openHeader(n int, text string) error {
	if !strings.HasSuffix(text, ":") {
		return &ParseError{Line: n, Text: text, Reason: "expected a group header ending in \":\""}
	}
	p.open = nil
	p.keys = make(map[string]bool)
	for _, name := range strings.Split(strings.TrimSuffix(text, ":"), ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			return &ParseError{Line: n, Text: text, Reason: "empty group name"}
		}
		if p.seen[name] {
			return &ParseError{Line: n, Text: text, Reason: fmt.Sprintf("duplicate group %q", name)}
		}
		p.seen[name] = true
		g := &Group{Name: name}
		p.spec.Groups = append(p.spec.Groups, g)
		p.open = append(p.open, g)
	}
	return nil
}

func (p *parser) addSubTest(n int, text string) error {
	if len(p.open) == 0 {
		return &ParseError{Line: n, Text: text, Reason: "sub-test outside of a group"}
	}
	key, value, found := strings.Cut(text, ":")
	if !found {
		return &ParseError{Line: n, Text: text, Reason: "expected \"<key>: [<value>]\""}
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	switch key {
	case KeyStatus, KeyStdout, KeyStderr:
	default:
		return &ParseError{Line: n, Text: text, Reason: fmt.Sprintf("unknown sub-test key %q", key)}
	}
	if p.keys[key] {
		return &ParseError{Line: n, Text: text, Reason: fmt.Sprintf("duplicate sub-test key %q", key)}
	}
	p.keys[key] = true

	if key == KeyStatus {
		if value == "" {
			return &ParseError{Line: n, Text: text, Reason: "status requires a value"}
		}
		status, err := parseStatus(value)
		if err != nil {
			return &ParseError{Line: n, Text: text, Reason: err.Error()}
		}
		for _, g := range p.open {
			g.Status = status
		}
		return nil
	}

	if value != "" {
		pat, err := fuzzy.NewPatternLines([]string{value})
		if err != nil {
			return &ParseError{Line: n, Text: text, Reason: err.Error()}
		}
		p.assign(key, pat)
		return nil
	}

	// No inline value: an indented pattern block follows, or nothing at
	// all, which means the stream is expected to be empty.
	p.patKey = key
	p.patLine = n
	p.patLines = nil
	return nil
}

func (p *parser) closePattern() error {
	if p.patKey == "" {
		return nil
	}
	pat, err := fuzzy.NewPatternLines(p.patLines)
	if err != nil {
		return &ParseError{Line: p.patLine, Reason: err.Error()}
	}
	p.assign(p.patKey, pat)
	p.patKey = ""
	p.patLines = nil
	return nil
}

func (p *parser) assign(key string, pat *fuzzy.Pattern) {
	for _, g := range p.open {
		if key == KeyStdout {
			g.Stdout = pat
		} else {
			g.Stderr = pat
		}
	}
}

// leadingIndent counts the leading spaces of a non-blank line. Tabs in the
// indentation are rejected since they have no well-defined width.
func leadingIndent(line string) (int, error) {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
		case '\t':
			return 0, errors.New("tab indentation is not supported")
		default:
			return i, nil
		}
	}
	return len(line), nil
}

// dedent strips the whitespace prefix shared by all non-blank lines, so that
// text extracted from comments like "// Compiler:" parses with the group
// headers at the top level.
func dedent(lines []string) []string {
	common := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := 0
		for n < len(l) && l[n] == ' ' {
			n++
		}
		if common < 0 || n < common {
			common = n
		}
	}
	if common <= 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			out[i] = ""
		} else {
			out[i] = l[common:]
		}
	}
	return out
}
