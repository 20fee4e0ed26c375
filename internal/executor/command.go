// Package executor provides test command execution for langtest.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/langtest/langtest/internal/debug"
)

// ExecOptions defines options for command execution
type ExecOptions struct {
	// Working directory for the command
	WorkingDir string
	// Additional environment variables (in KEY=VALUE format), appended to
	// the parent environment
	Environment []string
	// Timeout for command execution
	Timeout time.Duration
}

// ExecResult contains the captured outcome of one command execution.
// Spawn, wait, and capture are atomic: the result always reflects the
// command's complete output.
type ExecResult struct {
	// Standard output from the command
	Stdout string
	// Standard error from the command
	Stderr string
	// Exit code of the command
	ExitCode int
	// Whether the command timed out
	TimedOut bool
	// Error if the command failed to start or run at all
	Error error
}

// CommandExecutor executes external test commands
type CommandExecutor struct {
	// Default timeout for commands if not specified
	defaultTimeout time.Duration
}

// NewCommandExecutor creates a new command executor
func NewCommandExecutor(defaultTimeout time.Duration) *CommandExecutor {
	if defaultTimeout <= 0 {
		defaultTimeout = 2 * time.Minute
	}
	return &CommandExecutor{
		defaultTimeout: defaultTimeout,
	}
}

// Execute runs a command to completion and captures its exit status, stdout,
// and stderr. Failure to start is reported through ExecResult.Error, not the
// returned error, so callers can treat it as a failed test rather than an
// abort.
func (e *CommandExecutor) Execute(ctx context.Context, argv []string, options ExecOptions) (*ExecResult, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, fmt.Errorf("command cannot be empty")
	}

	timeout := options.Timeout
	if timeout <= 0 {
		timeout = e.defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	if options.WorkingDir != "" {
		absPath, err := filepath.Abs(options.WorkingDir)
		if err != nil {
			return nil, fmt.Errorf("invalid working directory: %w", err)
		}
		if _, err := os.Stat(absPath); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("invalid working directory: %s does not exist", absPath)
			}
			return nil, fmt.Errorf("invalid working directory: %w", err)
		}
		cmd.Dir = absPath
	}

	if len(options.Environment) > 0 {
		cmd.Env = append(os.Environ(), options.Environment...)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	debug.LogCommand(argv[0], argv, options.WorkingDir)
	start := time.Now()

	if err := cmd.Start(); err != nil {
		execErr := ClassifyError(err, argv[0], argv[1:])
		return &ExecResult{
			ExitCode: -1,
			Error:    execErr,
		}, nil
	}

	waitErr := cmd.Wait()

	timedOut := false
	if ctx.Err() == context.DeadlineExceeded {
		timedOut = true
		_ = HandleTimeoutCleanup(cmd)
	}

	exitCode := 0
	if waitErr != nil {
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return &ExecResult{
				Stdout:   stdoutBuf.String(),
				Stderr:   stderrBuf.String(),
				ExitCode: -1,
				TimedOut: timedOut,
				Error:    waitErr,
			}, nil
		}
	}

	debug.LogResult(argv[0], exitCode, time.Since(start))

	return &ExecResult{
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		ExitCode: exitCode,
		TimedOut: timedOut,
	}, nil
}
