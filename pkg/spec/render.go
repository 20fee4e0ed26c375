package spec

import (
	"strings"

	"github.com/langtest/langtest/pkg/fuzzy"
)

// String renders the specification back into its textual form using a
// two-space indentation unit. Re-parsing the result yields an equivalent
// specification.
func (s *Specification) String() string {
	var b strings.Builder
	for i, g := range s.Groups {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(g.Name)
		b.WriteString(":\n")
		if g.Status != nil {
			b.WriteString("  status: ")
			b.WriteString(g.Status.String())
			b.WriteString("\n")
		}
		writePattern(&b, KeyStdout, g.Stdout)
		writePattern(&b, KeyStderr, g.Stderr)
	}
	return b.String()
}

func writePattern(b *strings.Builder, key string, p *fuzzy.Pattern) {
	if p == nil {
		return
	}
	b.WriteString("  ")
	b.WriteString(key)
	b.WriteString(":\n")
	for _, l := range p.Lines() {
		if l == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString("    ")
		b.WriteString(l)
		b.WriteString("\n")
	}
}
