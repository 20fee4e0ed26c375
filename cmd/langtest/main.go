// Package main is the entry point for the langtest CLI tool.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/langtest/langtest/internal/config"
	"github.com/langtest/langtest/internal/debug"
)

// Version is set at build time via ldflags
var Version = "dev"

// osExit is a variable to allow mocking os.Exit in tests
var osExit = os.Exit

// Global flags
var (
	debugFlag  bool
	configPath string
)

// newRootCmd creates and returns the root command
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "langtest",
		Short: "Run tests embedded in source file comments",
		Long: `Langtest runs the test specifications embedded as comments inside source
files, such as the test programs of a compiler or virtual machine.

A test file declares, in its leading comment block, the commands' expected
exit status and stdout/stderr output:

  // Compiler:
  //   status: success
  //   stderr:
  //     warning: unused variable: ` + "`x`" + `
  //     ...unused_var.rs:12:9
  //     ...
  //
  // Run-time:
  //   status: success
  //   stdout: Hello world

The commands themselves ("Compiler", "Run-time") are configured per suite in
.langtest.yaml. Output patterns may use "..." as a wildcard: alone on a line
it matches zero or more lines; at the start or end of a line it matches the
rest or the beginning of that line.

GETTING STARTED:
  1. Create a configuration:
     $ langtest init

  2. Run your tests:
     $ langtest run

  3. Run a subset by substring:
     $ langtest run unused_var`,
		Version: Version,
		Example: `  # Scaffold .langtest.yaml interactively
  langtest init

  # Run every suite
  langtest run

  # Run only tests whose name contains "var"
  langtest run var

  # Use a specific config file
  langtest --config ci/langtest.yaml run`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debugFlag {
				debug.Enable()
			}
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug output")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the configuration file")

	return cmd
}

var rootCmd = newRootCmd()

func main() {
	if err := rootCmd.Execute(); err != nil {
		osExit(1)
	}
}

// loadConfig loads the configuration from the --config flag or the default
// search paths.
func loadConfig() (*config.Config, error) {
	loader := config.NewLoader()
	if configPath != "" {
		return loader.LoadFromPath(configPath)
	}
	return loader.Load()
}
