// Package testutil provides shared helpers for langtest's own tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes a file under dir, creating parent directories as needed,
// and returns its path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ShellArgv wraps a shell snippet into an argument vector, for test commands
// that need to produce specific output or exit codes.
func ShellArgv(script string) []string {
	return []string{"sh", "-c", script}
}
