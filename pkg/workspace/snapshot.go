// Package workspace produces a shallow textual snapshot of a project tree,
// fed to the model when the user asks for a workspace summary.
package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// DefaultMaxDepth keeps the snapshot shallow; deeply nested files say
	// little about project structure and burn the token budget.
	DefaultMaxDepth = 3

	// DefaultMaxFiles caps the listing size.
	DefaultMaxFiles = 200
)

// skipDirs are directories that never contribute to a project overview.
var skipDirs = map[string]struct{}{
	"node_modules": {},
	"vendor":       {},
	"dist":         {},
	"build":        {},
	"target":       {},
	"__pycache__":  {},
}

// Snapshot walks root up to maxDepth levels deep and returns a sorted file
// listing with sizes, one entry per line. Hidden entries and well-known
// generated directories are skipped. Depth or file-count truncation is noted
// at the end of the listing. A non-positive maxDepth means DefaultMaxDepth.
func Snapshot(root string, maxDepth int) (string, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", fmt.Errorf("workspace: snapshot %s: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("workspace: snapshot %s: not a directory", root)
	}

	var files []string
	truncated := false

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip inaccessible paths
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}

		name := d.Name()

		if d.IsDir() {
			if strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if _, skip := skipDirs[name]; skip {
				return filepath.SkipDir
			}
			if strings.Count(rel, string(filepath.Separator))+1 >= maxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		if len(files) >= DefaultMaxFiles {
			truncated = true
			return filepath.SkipAll
		}

		size := int64(0)
		if fi, err := d.Info(); err == nil {
			size = fi.Size()
		}

		files = append(files, fmt.Sprintf("%s (%s)", filepath.ToSlash(rel), humanSize(size)))

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("workspace: snapshot %s: %w", root, err)
	}

	sort.Strings(files)

	var b strings.Builder
	fmt.Fprintf(&b, "Workspace: %s\n", filepath.Base(absOrSelf(root)))
	for _, f := range files {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	if truncated {
		fmt.Fprintf(&b, "... listing truncated at %d files\n", DefaultMaxFiles)
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func absOrSelf(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
