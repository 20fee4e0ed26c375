// Package harness orchestrates embedded-specification tests: it discovers
// test files, extracts and parses their specifications, runs the configured
// commands, and checks the captured output against the expectations.
package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/langtest/langtest/internal/debug"
	"github.com/langtest/langtest/internal/discover"
	"github.com/langtest/langtest/internal/executor"
	"github.com/langtest/langtest/pkg/spec"
)

// Command is one labelled invocation to run against a test file. The label
// ties the command's captured output to the specification group of the same
// name; a command without a matching group runs unchecked.
type Command struct {
	Label string
	Argv  []string
}

// ExtractFunc pulls the raw specification text out of a test file. Returning
// false means the file contains no tests and is skipped, not failed.
type ExtractFunc func(path string, content []byte) (string, bool)

// CommandsFunc supplies the ordered commands to run against a test file.
type CommandsFunc func(path string) ([]Command, error)

// Harness runs a suite of embedded-specification tests. Configure the
// exported fields, then call Run.
type Harness struct {
	// TestDir is the directory scanned for test files.
	TestDir string
	// Include holds doublestar globs selecting test files within TestDir.
	// Empty means every file.
	Include []string
	// Suite names the test collection in identifiers such as
	// "lang_tests::unused_var". Defaults to the base name of TestDir.
	Suite string
	// Extract obtains each file's specification text. Defaults to
	// CommentExtractor("//").
	Extract ExtractFunc
	// Commands supplies the per-file commands. Required.
	Commands CommandsFunc
	// Filters restricts the run to tests whose identifier contains at
	// least one of these substrings.
	Filters []string
	// Workers caps how many test files run concurrently.
	Workers int
	// Timeout bounds each command execution.
	Timeout time.Duration
	// OnStart, if set, is invoked with the number of selected test files
	// before any of them runs.
	OnStart func(n int)
	// OnResult, if set, is invoked with each file's result in discovery
	// order as results become available.
	OnResult func(FileResult)
}

const defaultWorkers = 4

// Run executes the suite and returns the aggregated results. Individual
// test failures, including specification parse errors, are recorded in the
// summary; only configuration-level problems (an unreadable test directory,
// a missing Commands supplier) produce a non-nil error.
func (h *Harness) Run(ctx context.Context) (*Summary, error) {
	if h.Commands == nil {
		return nil, fmt.Errorf("harness: Commands must be set")
	}
	extract := h.Extract
	if extract == nil {
		extract = CommentExtractor("//")
	}
	suite := h.Suite
	if suite == "" {
		suite = filepath.Base(h.TestDir)
	}
	workers := h.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	files, err := discover.Files(h.TestDir, h.Include)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	var work []string
	var names []string
	for _, path := range files {
		name := testName(suite, path)
		if !h.selected(name) {
			summary.Filtered++
			continue
		}
		work = append(work, path)
		names = append(names, name)
	}
	debug.Log("Running %d of %d test files", len(work), len(files))
	if h.OnStart != nil {
		h.OnStart(len(work))
	}

	exe := executor.NewCommandExecutor(h.Timeout)

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	results := make([]FileResult, len(work))
	done := make([]chan struct{}, len(work))
	for i := range done {
		done[i] = make(chan struct{})
	}

	for i := range work {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer close(done[i])

			sem <- struct{}{}
			defer func() { <-sem }()

			select {
			case <-ctx.Done():
				results[i] = FileResult{
					Path:    work[i],
					Name:    names[i],
					Outcome: OutcomeFail,
					Err:     ctx.Err(),
				}
				return
			default:
			}

			results[i] = h.runFile(ctx, exe, extract, work[i], names[i])
		}(i)
	}

	// Deliver results in discovery order even though files complete in
	// arbitrary order.
	for i := range done {
		<-done[i]
		if h.OnResult != nil {
			h.OnResult(results[i])
		}
	}
	wg.Wait()

	summary.Results = results
	for i := range results {
		switch results[i].Outcome {
		case OutcomePass:
			summary.Passed++
		case OutcomeFail:
			summary.Failed++
		case OutcomeIgnored:
			summary.Ignored++
		}
	}
	return summary, nil
}

// runFile runs every command for one test file and evaluates the sub-tests
// of each against the captured results.
func (h *Harness) runFile(ctx context.Context, exe *executor.CommandExecutor, extract ExtractFunc, path, name string) FileResult {
	result := FileResult{Path: path, Name: name}

	content, err := os.ReadFile(path)
	if err != nil {
		result.Outcome = OutcomeFail
		result.Err = err
		return result
	}

	raw, ok := extract(path, content)
	if !ok {
		result.Outcome = OutcomeIgnored
		return result
	}

	parsed, err := spec.Parse(raw)
	if err != nil {
		result.Outcome = OutcomeFail
		result.Err = err
		return result
	}

	commands, err := h.Commands(path)
	if err != nil {
		result.Outcome = OutcomeFail
		result.Err = err
		return result
	}

	failed := false
	skip := false
	for _, cmd := range commands {
		group := parsed.Group(cmd.Label)

		if skip {
			// An earlier command failed; later commands depend on
			// its artifacts and cannot run. Their expectations, if
			// any, go unverified, which fails the test.
			cr := CommandResult{Label: cmd.Label, Skipped: true}
			if group != nil && groupSubTests(group) > 0 {
				failed = true
			}
			result.Commands = append(result.Commands, cr)
			continue
		}

		execResult, err := exe.Execute(ctx, cmd.Argv, executor.ExecOptions{
			Timeout: h.Timeout,
		})
		if err == nil && execResult.Error != nil {
			err = execResult.Error
		}
		if err != nil {
			result.Commands = append(result.Commands, CommandResult{
				Label:   cmd.Label,
				ExecErr: err,
			})
			failed = true
			skip = true
			continue
		}

		cr := CommandResult{Label: cmd.Label}
		if group != nil {
			cr.SubTests = evaluate(group, execResult)
		}
		result.Commands = append(result.Commands, cr)

		switch {
		case !cr.Passed():
			failed = true
			skip = true
		case group == nil || group.Status == nil:
			// No declared status: assume the command had to
			// succeed before its dependents may run.
			if execResult.ExitCode != 0 {
				skip = true
			}
		}
	}

	if failed {
		result.Outcome = OutcomeFail
	} else {
		result.Outcome = OutcomePass
	}
	return result
}

func (h *Harness) selected(name string) bool {
	if len(h.Filters) == 0 {
		return true
	}
	for _, f := range h.Filters {
		if strings.Contains(name, f) {
			return true
		}
	}
	return false
}

// testName derives the reported identifier for a test file, e.g.
// "lang_tests::unused_var".
func testName(suite, path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return suite + "::" + stem
}

func groupSubTests(g *spec.Group) int {
	n := 0
	if g.Status != nil {
		n++
	}
	if g.Stdout != nil {
		n++
	}
	if g.Stderr != nil {
		n++
	}
	return n
}
