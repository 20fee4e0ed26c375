// Package config provides configuration loading and validation for langtest.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
)

// Config is the root of a .langtest.yaml file.
type Config struct {
	Version string         `yaml:"version"`
	Suites  []*SuiteConfig `yaml:"suites"`
}

// SuiteConfig describes one directory of test files and the commands run
// against each of them.
type SuiteConfig struct {
	// Name identifies the suite in reports and test identifiers.
	Name string `yaml:"name"`
	// Dir is the directory containing the test files, relative to the
	// configuration file.
	Dir string `yaml:"dir"`
	// Include holds doublestar globs selecting test files within Dir.
	// Empty means every file.
	Include []string `yaml:"include,omitempty"`
	// Comment is the line-comment prefix tests are embedded behind.
	Comment string `yaml:"comment,omitempty"`
	// Timeout for each command, in milliseconds.
	Timeout int `yaml:"timeout,omitempty"`
	// Commands are run in order against every test file.
	Commands []*CommandConfig `yaml:"commands"`
}

// CommandConfig is one labelled command template. The label ties the command
// to the matching group in each file's embedded specification.
type CommandConfig struct {
	Name string `yaml:"name"`
	Run  string `yaml:"run"`
}

// DefaultComment is used when a suite does not set a comment prefix.
const DefaultComment = "//"

// Validate performs validation on the Config
func (c *Config) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("version is required")
	}
	if len(c.Suites) == 0 {
		return fmt.Errorf("at least one suite is required")
	}

	seen := make(map[string]bool)
	for i, suite := range c.Suites {
		if err := suite.Validate(); err != nil {
			return fmt.Errorf("suite %d: %w", i, err)
		}
		if seen[suite.Name] {
			return fmt.Errorf("duplicate suite name %q", suite.Name)
		}
		seen[suite.Name] = true
	}
	return nil
}

// Validate performs validation on the SuiteConfig
func (s *SuiteConfig) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Dir == "" {
		return fmt.Errorf("dir is required")
	}
	if len(s.Commands) == 0 {
		return fmt.Errorf("at least one command is required")
	}

	seen := make(map[string]bool)
	for i, cmd := range s.Commands {
		if err := cmd.Validate(); err != nil {
			return fmt.Errorf("command %d: %w", i, err)
		}
		if seen[cmd.Name] {
			return fmt.Errorf("duplicate command name %q", cmd.Name)
		}
		seen[cmd.Name] = true
	}
	return nil
}

// Validate performs validation on the CommandConfig
func (c *CommandConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.Run == "" {
		return fmt.Errorf("run is required")
	}
	if _, err := shellquote.Split(c.Run); err != nil {
		return fmt.Errorf("run %q: %w", c.Run, err)
	}
	return nil
}

// CommentPrefix returns the suite's comment prefix, falling back to the
// default.
func (s *SuiteConfig) CommentPrefix() string {
	if s.Comment == "" {
		return DefaultComment
	}
	return s.Comment
}

// Argv expands the command template for one test file into an argument
// vector. The template is tokenized with shell quoting rules first, then the
// placeholders {file}, {stem}, and {tmpdir} are substituted per token so
// paths containing spaces stay single arguments.
func (c *CommandConfig) Argv(file, tmpdir string) ([]string, error) {
	tokens, err := shellquote.Split(c.Run)
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", c.Name, err)
	}

	base := filepath.Base(file)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	replacer := strings.NewReplacer(
		"{file}", file,
		"{stem}", stem,
		"{tmpdir}", tmpdir,
	)
	for i, tok := range tokens {
		tokens[i] = replacer.Replace(tok)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("command %q expands to nothing", c.Name)
	}
	return tokens, nil
}
