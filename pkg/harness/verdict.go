package harness

import (
	"strconv"
	"strings"

	"github.com/langtest/langtest/internal/executor"
	"github.com/langtest/langtest/pkg/fuzzy"
	"github.com/langtest/langtest/pkg/spec"
)

// Outcome is the overall verdict for one test file.
type Outcome int

const (
	// OutcomePass means every checked sub-test passed.
	OutcomePass Outcome = iota
	// OutcomeFail means a sub-test failed, a command could not run, or
	// the specification was malformed.
	OutcomeFail
	// OutcomeIgnored means the file contained no tests.
	OutcomeIgnored
)

// SubTestResult is the verdict for a single sub-test, with enough context
// to render a diagnostic on failure.
type SubTestResult struct {
	// Key is the sub-test kind: "status", "stdout", or "stderr".
	Key string
	// Pass reports whether the expectation was met.
	Pass bool
	// Expected is the expectation in its specification form.
	Expected string
	// Actual is the observed value, normalized the way matching saw it.
	Actual string
}

// CommandResult collects the sub-test verdicts of one command.
type CommandResult struct {
	Label string
	// Skipped means an earlier command failed and this one never ran.
	Skipped bool
	// ExecErr is set when the command could not be executed at all.
	ExecErr error
	// SubTests holds the verdicts for the command's checked sub-tests.
	SubTests []SubTestResult
}

// Passed reports whether the command ran and all its sub-tests passed.
func (c *CommandResult) Passed() bool {
	if c.Skipped || c.ExecErr != nil {
		return false
	}
	for i := range c.SubTests {
		if !c.SubTests[i].Pass {
			return false
		}
	}
	return true
}

// FileResult is the verdict for one test file.
type FileResult struct {
	Path     string
	Name     string
	Outcome  Outcome
	Err      error
	Commands []CommandResult
}

// Summary aggregates a whole run.
type Summary struct {
	Results  []FileResult
	Passed   int
	Failed   int
	Ignored  int
	Filtered int
}

// Ok reports whether no test failed.
func (s *Summary) Ok() bool {
	return s.Failed == 0
}

// evaluate checks a command's captured result against the present sub-tests
// of its group. Absent sub-tests are not checked.
func evaluate(g *spec.Group, res *executor.ExecResult) []SubTestResult {
	var verdicts []SubTestResult
	if g.Status != nil {
		verdicts = append(verdicts, SubTestResult{
			Key:      spec.KeyStatus,
			Pass:     g.Status.Check(res.ExitCode),
			Expected: g.Status.String(),
			Actual:   strconv.Itoa(res.ExitCode),
		})
	}
	if g.Stdout != nil {
		verdicts = append(verdicts, evaluateStream(spec.KeyStdout, g.Stdout, res.Stdout))
	}
	if g.Stderr != nil {
		verdicts = append(verdicts, evaluateStream(spec.KeyStderr, g.Stderr, res.Stderr))
	}
	return verdicts
}

// evaluateStream checks one captured stream against its pattern. An empty
// pattern demands the stream be empty; anything else goes through the fuzzy
// matcher.
func evaluateStream(key string, p *fuzzy.Pattern, actual string) SubTestResult {
	trimmed := strings.TrimSpace(actual)
	pass := false
	if p.IsEmpty() {
		pass = trimmed == ""
	} else {
		pass = p.Match(actual)
	}
	return SubTestResult{
		Key:      key,
		Pass:     pass,
		Expected: p.String(),
		Actual:   trimmed,
	}
}
