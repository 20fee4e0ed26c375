package main

import (
	"github.com/spf13/cobra"

	"github.com/langtest/langtest/internal/wizard"
)

var forceFlag bool

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .langtest.yaml interactively",
	Long: `Create a starter configuration file by answering a few questions:
where the test files live, which comment prefix carries the embedded
specifications, and which commands to run against each file.`,
	Example: `  # Scaffold a configuration in the current directory
  langtest init

  # Overwrite an existing configuration
  langtest init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := wizard.NewConfigWizard()
		return w.Run(configPath, forceFlag)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&forceFlag, "force", false, "overwrite an existing configuration")
}
