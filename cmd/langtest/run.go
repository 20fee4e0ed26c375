package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/langtest/langtest/internal/config"
	"github.com/langtest/langtest/internal/debug"
	"github.com/langtest/langtest/internal/reporter"
	"github.com/langtest/langtest/pkg/harness"
)

var (
	workersFlag int
	suiteFlag   string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [filters...]",
	Short: "Run the configured test suites",
	Long: `Run every test suite from the configuration, or a subset.

Each test file is checked against the expectations embedded in its comment
block: the suite's commands run in order, their exit status and captured
stdout/stderr are compared to the file's specification, and the verdicts are
printed per test. Positional arguments are substring filters on the test
identifier (e.g. "lang_tests::unused_var").

A failed sub-test fails its file but never stops the run; malformed
specifications are reported with the offending line. The exit code is
non-zero when any test fails, for CI use.`,
	Example: `  # Run everything
  langtest run

  # Run only one suite
  langtest run --suite lang_tests

  # Run tests whose identifier contains "var", four files at a time
  langtest run --workers 4 var`,
	RunE: runTests,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().IntVar(&workersFlag, "workers", 0, "maximum test files run concurrently")
	runCmd.Flags().StringVar(&suiteFlag, "suite", "", "run only the named suite")
}

func runTests(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ran := false
	ok := true
	for _, suite := range cfg.Suites {
		if suiteFlag != "" && suite.Name != suiteFlag {
			continue
		}
		ran = true
		summary, err := runSuite(suite, args)
		if err != nil {
			return err
		}
		if !summary.Ok() {
			ok = false
		}
	}
	if !ran {
		return fmt.Errorf("no suite named %q in configuration", suiteFlag)
	}
	if !ok {
		osExit(1)
	}
	return nil
}

// runSuite runs one suite to completion, streaming verdicts to stdout.
func runSuite(suite *config.SuiteConfig, filters []string) (*harness.Summary, error) {
	debug.LogSection("Suite " + suite.Name)

	// Build artifacts such as compiled binaries live in a per-suite
	// scratch directory, available to commands as {tmpdir}.
	tmpdir, err := os.MkdirTemp("", "langtest")
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(tmpdir)

	rep := reporter.New(os.Stdout)

	h := &harness.Harness{
		TestDir: suite.Dir,
		Include: suite.Include,
		Suite:   suite.Name,
		Extract: harness.CommentExtractor(suite.CommentPrefix()),
		Commands: func(path string) ([]harness.Command, error) {
			var cmds []harness.Command
			for _, cc := range suite.Commands {
				argv, err := cc.Argv(path, tmpdir)
				if err != nil {
					return nil, err
				}
				cmds = append(cmds, harness.Command{Label: cc.Name, Argv: argv})
			}
			return cmds, nil
		},
		Filters:  filters,
		Workers:  workersFlag,
		Timeout:  time.Duration(suite.Timeout) * time.Millisecond,
		OnStart:  rep.Start,
		OnResult: rep.Result,
	}

	summary, err := h.Run(context.Background())
	if err != nil {
		return nil, err
	}
	rep.Summary(summary)
	return summary, nil
}
