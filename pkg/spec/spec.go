// Package spec parses embedded test specifications extracted from source
// file comments into structured, ordered test groups.
package spec

import (
	"fmt"
	"strconv"

	"github.com/langtest/langtest/pkg/fuzzy"
)

// Recognized sub-test keys.
const (
	KeyStatus = "status"
	KeyStdout = "stdout"
	KeyStderr = "stderr"
)

// StatusKind discriminates the forms a status expectation can take.
type StatusKind int

const (
	// StatusSuccess expects the command to exit successfully.
	StatusSuccess StatusKind = iota
	// StatusFailure expects the command to exit unsuccessfully.
	StatusFailure
	// StatusExitCode expects a specific exit code.
	StatusExitCode
)

// Status is the parsed expectation for a command's exit status.
type Status struct {
	Kind StatusKind
	// Code is the expected exit code when Kind is StatusExitCode.
	Code int
}

// Check reports whether an observed exit code satisfies the expectation.
func (s *Status) Check(exitCode int) bool {
	switch s.Kind {
	case StatusSuccess:
		return exitCode == 0
	case StatusFailure:
		return exitCode != 0
	default:
		return exitCode == s.Code
	}
}

// String returns the status in its specification form.
func (s *Status) String() string {
	switch s.Kind {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return strconv.Itoa(s.Code)
	}
}

func parseStatus(value string) (*Status, error) {
	switch value {
	case "success":
		return &Status{Kind: StatusSuccess}, nil
	case "failure":
		return &Status{Kind: StatusFailure}, nil
	}
	code, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("status must be \"success\", \"failure\", or an integer, got %q", value)
	}
	return &Status{Kind: StatusExitCode, Code: code}, nil
}

// Group holds the sub-test expectations for one logical command. A nil
// pattern means the stream is not checked; an empty pattern means the stream
// must produce no output.
type Group struct {
	Name   string
	Status *Status
	Stdout *fuzzy.Pattern
	Stderr *fuzzy.Pattern
}

// Specification is the full, ordered set of test groups parsed from one
// file's extracted comment block. Group order is the execution and reporting
// order, and group names are unique.
type Specification struct {
	Groups []*Group
}

// Group returns the group with the given name, or nil if none exists.
func (s *Specification) Group(name string) *Group {
	for _, g := range s.Groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// SubTestCount returns the total number of sub-tests across all groups.
func (s *Specification) SubTestCount() int {
	n := 0
	for _, g := range s.Groups {
		if g.Status != nil {
			n++
		}
		if g.Stdout != nil {
			n++
		}
		if g.Stderr != nil {
			n++
		}
	}
	return n
}
