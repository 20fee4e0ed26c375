// Package reporter renders test verdicts for langtest in a style modeled on
// the standard Go and cargo test output.
package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/langtest/langtest/pkg/harness"
)

const (
	ansiGreen  = "\x1b[32m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

// Reporter writes progress lines as tests finish and a final summary with
// diagnostics for every failure.
type Reporter struct {
	out   io.Writer
	color bool
}

// New creates a reporter. Color is enabled only when out is a terminal.
func New(out io.Writer) *Reporter {
	color := false
	if f, ok := out.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &Reporter{out: out, color: color}
}

// Start announces how many tests are about to run.
func (r *Reporter) Start(n int) {
	fmt.Fprintf(r.out, "\nrunning %d tests\n", n)
}

// Result prints the one-line verdict for a test file.
func (r *Reporter) Result(res harness.FileResult) {
	var verdict string
	switch res.Outcome {
	case harness.OutcomePass:
		verdict = r.paint(ansiGreen, "ok")
	case harness.OutcomeIgnored:
		verdict = r.paint(ansiYellow, "ignored")
	default:
		verdict = r.paint(ansiRed, "FAILED")
	}
	fmt.Fprintf(r.out, "test %s ... %s\n", res.Name, verdict)
}

// Summary prints failure diagnostics and the closing result line, e.g.
// "test result: ok. 4 passed; 0 failed; 0 ignored; 0 filtered out".
func (r *Reporter) Summary(s *harness.Summary) {
	var failures []harness.FileResult
	for _, res := range s.Results {
		if res.Outcome == harness.OutcomeFail {
			failures = append(failures, res)
		}
	}

	if len(failures) > 0 {
		fmt.Fprintf(r.out, "\nfailures:\n")
		for _, res := range failures {
			r.failure(res)
		}
	}

	verdict := r.paint(ansiGreen, "ok")
	if !s.Ok() {
		verdict = r.paint(ansiRed, "FAILED")
	}
	fmt.Fprintf(r.out, "\ntest result: %s. %d passed; %d failed; %d ignored; %d filtered out\n",
		verdict, s.Passed, s.Failed, s.Ignored, s.Filtered)
}

// failure prints the diagnostic block for one failed test file.
func (r *Reporter) failure(res harness.FileResult) {
	fmt.Fprintf(r.out, "\n---- %s ----\n", res.Name)
	if res.Err != nil {
		fmt.Fprintf(r.out, "%v\n", res.Err)
		return
	}
	for _, cmd := range res.Commands {
		switch {
		case cmd.Skipped:
			fmt.Fprintf(r.out, "%s: not run (earlier command failed)\n", cmd.Label)
		case cmd.ExecErr != nil:
			fmt.Fprintf(r.out, "%s: %v\n", cmd.Label, cmd.ExecErr)
		default:
			for _, st := range cmd.SubTests {
				if st.Pass {
					continue
				}
				fmt.Fprintf(r.out, "%s %s expected:\n%s\n%s %s actual:\n%s\n",
					cmd.Label, st.Key, indentBlock(st.Expected),
					cmd.Label, st.Key, indentBlock(st.Actual))
			}
		}
	}
}

func indentBlock(s string) string {
	if s == "" {
		return "  <empty>"
	}
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

func (r *Reporter) paint(color, s string) string {
	if !r.color {
		return s
	}
	return color + s + ansiReset
}
