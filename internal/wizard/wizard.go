// Package wizard provides the interactive configuration wizard for langtest.
package wizard

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"gopkg.in/yaml.v3"

	"github.com/langtest/langtest/internal/config"
	"github.com/langtest/langtest/internal/debug"
)

// ConfigWizard interactively builds a starter .langtest.yaml.
type ConfigWizard struct{}

// NewConfigWizard creates a new configuration wizard
func NewConfigWizard() *ConfigWizard {
	return &ConfigWizard{}
}

// Run asks for a suite definition and writes the configuration file. With
// force set an existing file is overwritten without asking.
func (w *ConfigWizard) Run(outputPath string, force bool) error {
	debug.LogSection("Configuration Wizard")

	if outputPath == "" {
		outputPath = config.ConfigFileName
	}

	if !force {
		overwrite, err := w.checkExistingConfig(outputPath)
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Println("Configuration wizard canceled.")
			return nil
		}
	}

	suite, err := w.askSuite()
	if err != nil {
		return err
	}

	cfg := &config.Config{
		Version: "1.0",
		Suites:  []*config.SuiteConfig{suite},
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("rendering configuration: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}

	fmt.Printf("Wrote %s. Run your tests with: langtest run\n", outputPath)
	return nil
}

func (w *ConfigWizard) askSuite() (*config.SuiteConfig, error) {
	suite := &config.SuiteConfig{}

	questions := []*survey.Question{
		{
			Name:     "name",
			Prompt:   &survey.Input{Message: "Suite name:", Default: "lang_tests"},
			Validate: survey.Required,
		},
		{
			Name:     "dir",
			Prompt:   &survey.Input{Message: "Test file directory:", Default: "tests"},
			Validate: survey.Required,
		},
		{
			Name:   "include",
			Prompt: &survey.Input{Message: "Include glob (empty for all files):"},
		},
		{
			Name: "comment",
			Prompt: &survey.Select{
				Message: "Comment prefix for embedded tests:",
				Options: []string{"//", "#", "--", ";"},
				Default: "//",
			},
		},
	}

	answers := struct {
		Name    string
		Dir     string
		Include string
		Comment string
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return nil, err
	}

	suite.Name = answers.Name
	suite.Dir = answers.Dir
	if answers.Include != "" {
		suite.Include = []string{answers.Include}
	}
	suite.Comment = answers.Comment

	for {
		cmd, err := w.askCommand(len(suite.Commands) + 1)
		if err != nil {
			return nil, err
		}
		suite.Commands = append(suite.Commands, cmd)

		more := false
		prompt := &survey.Confirm{Message: "Add another command?", Default: false}
		if err := survey.AskOne(prompt, &more); err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}

	return suite, nil
}

func (w *ConfigWizard) askCommand(n int) (*config.CommandConfig, error) {
	cmd := &config.CommandConfig{}

	namePrompt := &survey.Input{
		Message: fmt.Sprintf("Command %d label (matches a group name in test files):", n),
	}
	if err := survey.AskOne(namePrompt, &cmd.Name, survey.WithValidator(survey.Required)); err != nil {
		return nil, err
	}

	runPrompt := &survey.Input{
		Message: "Command line ({file}, {stem}, {tmpdir} are substituted):",
		Help:    "Example: rustc -o {tmpdir}/{stem} {file}",
	}
	if err := survey.AskOne(runPrompt, &cmd.Run, survey.WithValidator(survey.Required)); err != nil {
		return nil, err
	}

	return cmd, nil
}

func (w *ConfigWizard) checkExistingConfig(path string) (bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return true, nil
	}

	overwrite := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("%s already exists. Overwrite?", path),
		Default: false,
	}
	if err := survey.AskOne(prompt, &overwrite); err != nil {
		return false, err
	}
	return overwrite, nil
}
