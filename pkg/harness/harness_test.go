//go:build unit

package harness_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/langtest/langtest/internal/testutil"
	"github.com/langtest/langtest/pkg/harness"
	"github.com/langtest/langtest/pkg/spec"
)

// staticCommands returns a CommandsFunc that runs the same labelled shell
// snippets for every test file.
func staticCommands(cmds ...harness.Command) harness.CommandsFunc {
	return func(string) ([]harness.Command, error) {
		return cmds, nil
	}
}

func shell(label, script string) harness.Command {
	return harness.Command{Label: label, Argv: testutil.ShellArgv(script)}
}

func TestRunCompilerRunTimeScenario(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "unused_var.rs", `// Compiler:
//   status: success
//   stderr:
//     warning: unused variable: `+"`x`"+`
//     ...unused_var.rs:12:9
//     ...
//
// Run-time:
//   status: success
//   stdout: Hello world
fn main() { println!("Hello world"); }
`)

	compiler := shell("Compiler",
		"echo 'warning: unused variable: `x`' >&2; "+
			"echo ' --> unused_var.rs:12:9' >&2; "+
			"echo 'note: #[warn(unused_variables)] on by default' >&2")
	runTime := shell("Run-time", `echo "Hello world"`)

	h := &harness.Harness{
		TestDir:  dir,
		Suite:    "lang_tests",
		Commands: staticCommands(compiler, runTime),
	}
	summary, err := h.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Passed)
	assert.Equal(t, 0, summary.Failed)
	assert.True(t, summary.Ok())

	require.Len(t, summary.Results, 1)
	result := summary.Results[0]
	assert.Equal(t, "lang_tests::unused_var", result.Name)
	assert.Equal(t, harness.OutcomePass, result.Outcome)

	require.Len(t, result.Commands, 2)
	subTests := 0
	for _, cr := range result.Commands {
		assert.True(t, cr.Passed(), "command %s", cr.Label)
		subTests += len(cr.SubTests)
	}
	assert.Equal(t, 4, subTests)
}

func TestRunFailingStdout(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "hello.x", "// Run:\n//   stdout: Hello world\n")

	h := &harness.Harness{
		TestDir:  dir,
		Commands: staticCommands(shell("Run", `echo "Goodbye world"`)),
	}
	summary, err := h.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.False(t, summary.Ok())

	result := summary.Results[0]
	require.Len(t, result.Commands, 1)
	require.Len(t, result.Commands[0].SubTests, 1)
	st := result.Commands[0].SubTests[0]
	assert.Equal(t, spec.KeyStdout, st.Key)
	assert.False(t, st.Pass)
	assert.Equal(t, "Hello world", st.Expected)
	assert.Equal(t, "Goodbye world", st.Actual)
}

func TestRunEmptyStdoutExpectation(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "quiet.x", "// Run:\n//   stdout:\n")

	t.Run("output fails", func(t *testing.T) {
		h := &harness.Harness{
			TestDir:  dir,
			Commands: staticCommands(shell("Run", `echo chatter`)),
		}
		summary, err := h.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Failed)
	})

	t.Run("silence passes", func(t *testing.T) {
		h := &harness.Harness{
			TestDir:  dir,
			Commands: staticCommands(shell("Run", `true`)),
		}
		summary, err := h.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Passed)
	})
}

func TestRunIgnoresFileWithoutTests(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "plain.x", "no comments here\n")

	h := &harness.Harness{
		TestDir:  dir,
		Commands: staticCommands(shell("Run", `true`)),
	}
	summary, err := h.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Ignored)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, harness.OutcomeIgnored, summary.Results[0].Outcome)
	assert.Empty(t, summary.Results[0].Commands)
}

func TestRunMalformedSpecificationFailsFile(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "bad.x", "// Run:\n//   status: sometimes\n")
	testutil.WriteFile(t, dir, "good.x", "// Run:\n//   status: success\n")

	h := &harness.Harness{
		TestDir:  dir,
		Commands: staticCommands(shell("Run", `true`)),
	}
	summary, err := h.Run(context.Background())
	require.NoError(t, err, "a malformed file must not abort the run")

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Passed)

	var parseErr *spec.ParseError
	require.Error(t, summary.Results[0].Err)
	assert.True(t, errors.As(summary.Results[0].Err, &parseErr))
}

func TestRunCommandNotFound(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "t.x", "// Run:\n//   status: success\n")

	h := &harness.Harness{
		TestDir: dir,
		Commands: staticCommands(harness.Command{
			Label: "Run",
			Argv:  []string{"definitely-not-a-command-xyz"},
		}),
	}
	summary, err := h.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Results[0].Commands, 1)
	assert.Error(t, summary.Results[0].Commands[0].ExecErr)
}

func TestRunSkipsDependentCommands(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "t.x", `// Compiler:
//   status: success
//
// Run-time:
//   stdout: Hello world
`)

	h := &harness.Harness{
		TestDir: dir,
		Commands: staticCommands(
			shell("Compiler", `exit 1`),
			shell("Run-time", `echo "Hello world"`),
		),
	}
	summary, err := h.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	result := summary.Results[0]
	require.Len(t, result.Commands, 2)
	assert.False(t, result.Commands[0].Passed())
	assert.True(t, result.Commands[1].Skipped)
	assert.Empty(t, result.Commands[1].SubTests)
}

func TestRunUncheckedCommandGatesDependents(t *testing.T) {
	dir := t.TempDir()
	// The first command has no group: its output is unchecked, but its
	// assumed-success status still gates the second command.
	testutil.WriteFile(t, dir, "t.x", "// Run-time:\n//   stdout: Hello world\n")

	h := &harness.Harness{
		TestDir: dir,
		Commands: staticCommands(
			shell("Compiler", `exit 1`),
			shell("Run-time", `echo "Hello world"`),
		),
	}
	summary, err := h.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	result := summary.Results[0]
	require.Len(t, result.Commands, 2)
	assert.True(t, result.Commands[1].Skipped)
}

func TestRunUncheckedCommandOutputIgnored(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "t.x", "// Run:\n//   status: success\n")

	h := &harness.Harness{
		TestDir: dir,
		Commands: staticCommands(
			shell("Noisy", `echo lots of noise; echo more >&2`),
			shell("Run", `true`),
		),
	}
	summary, err := h.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Passed)
}

func TestRunFilters(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "unknown_var.x", "// Run:\n//   status: success\n")
	testutil.WriteFile(t, dir, "unused_var.x", "// Run:\n//   status: success\n")
	testutil.WriteFile(t, dir, "exit_code.x", "// Run:\n//   status: success\n")

	h := &harness.Harness{
		TestDir:  dir,
		Commands: staticCommands(shell("Run", `true`)),
		Filters:  []string{"var"},
	}
	summary, err := h.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Passed)
	assert.Equal(t, 1, summary.Filtered)
	assert.Len(t, summary.Results, 2)
}

func TestRunResultsInDiscoveryOrder(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.x", "// Run:\n//   status: success\n")
	testutil.WriteFile(t, dir, "b.x", "// Run:\n//   status: success\n")
	testutil.WriteFile(t, dir, "c.x", "// Run:\n//   status: success\n")

	var order []string
	h := &harness.Harness{
		TestDir:  dir,
		Suite:    "s",
		Workers:  3,
		Commands: staticCommands(shell("Run", `true`)),
		OnResult: func(r harness.FileResult) { order = append(order, r.Name) },
	}
	_, err := h.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"s::a", "s::b", "s::c"}, order)
}

func TestRunStatusExitCode(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "t.x", "// Run:\n//   status: 7\n")

	h := &harness.Harness{
		TestDir:  dir,
		Commands: staticCommands(shell("Run", `exit 7`)),
	}
	summary, err := h.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Passed)
}

func TestRunRequiresCommands(t *testing.T) {
	h := &harness.Harness{TestDir: t.TempDir()}
	_, err := h.Run(context.Background())
	assert.Error(t, err)
}

func TestCommentExtractor(t *testing.T) {
	extract := harness.CommentExtractor("#")

	t.Run("takes only the first comment block", func(t *testing.T) {
		raw, ok := extract("t.py", []byte("# Run:\n#   status: success\ncode\n# a later comment\n"))
		require.True(t, ok)
		assert.Equal(t, " Run:\n   status: success", raw)
	})

	t.Run("skips leading code", func(t *testing.T) {
		raw, ok := extract("t.py", []byte("x = 1\n# Run:\n#   status: success\ny = 2\n"))
		require.True(t, ok)
		assert.Equal(t, " Run:\n   status: success", raw)
	})

	t.Run("no comments", func(t *testing.T) {
		_, ok := extract("t.py", []byte("x = 1\n"))
		assert.False(t, ok)
	})

	t.Run("blank comment block", func(t *testing.T) {
		_, ok := extract("t.py", []byte("#\n#\nx = 1\n"))
		assert.False(t, ok)
	})
}
