// Package discover finds test files for langtest.
package discover

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/langtest/langtest/internal/debug"
)

// Files walks dir and returns the paths of all regular files matching at
// least one of the include globs, relative paths matched with doublestar
// semantics. With no globs every file matches. Results are sorted for a
// stable execution and reporting order.
func Files(dir string, include []string) ([]string, error) {
	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if matches(rel, include) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering test files in %s: %w", dir, err)
	}

	sort.Strings(files)
	debug.Log("Discovered %d test files in %s", len(files), dir)
	return files, nil
}

func matches(rel string, include []string) bool {
	if len(include) == 0 {
		return true
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range include {
		matched, err := doublestar.Match(filepath.ToSlash(pattern), rel)
		if err == nil && matched {
			return true
		}
	}
	return false
}
