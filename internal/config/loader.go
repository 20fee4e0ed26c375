package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/langtest/langtest/internal/debug"
)

const (
	// ConfigFileName is the default configuration file name
	ConfigFileName = ".langtest.yaml"

	// ConfigEnvVar is the environment variable to specify custom config path
	ConfigEnvVar = "LANGTEST_CONFIG"
)

// Loader handles locating and loading configuration files
type Loader struct {
	// SearchPaths contains the paths to search for configuration files
	SearchPaths []string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		SearchPaths: getDefaultSearchPaths(),
	}
}

// Load attempts to load configuration from various sources
func (l *Loader) Load() (*Config, error) {
	debug.LogSection("Configuration Loading")

	if envPath := os.Getenv(ConfigEnvVar); envPath != "" {
		debug.Log("Loading config from %s: %s", ConfigEnvVar, envPath)
		cfg, err := l.LoadFromPath(envPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", ConfigEnvVar, err)
		}
		return cfg, nil
	}

	debug.Log("Searching for config in: %v", l.SearchPaths)
	for _, searchPath := range l.SearchPaths {
		configPath := filepath.Join(searchPath, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			debug.Log("Found config at: %s", configPath)
			cfg, err := l.LoadFromPath(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
			}
			return cfg, nil
		}
	}

	return nil, fmt.Errorf("no %s found (searched %v)", ConfigFileName, l.SearchPaths)
}

// LoadFromPath loads and validates configuration from a specific file.
// Relative suite directories are resolved against the file's location.
func (l *Loader) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	base := filepath.Dir(path)
	for _, suite := range cfg.Suites {
		if !filepath.IsAbs(suite.Dir) {
			suite.Dir = filepath.Join(base, suite.Dir)
		}
	}
	return &cfg, nil
}

// getDefaultSearchPaths returns the default paths to search for
// configuration: the working directory and each of its ancestors, so tests
// can run from anywhere inside a project.
func getDefaultSearchPaths() []string {
	var paths []string
	cwd, err := os.Getwd()
	if err != nil {
		return paths
	}
	for {
		paths = append(paths, cwd)
		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}
	return paths
}
