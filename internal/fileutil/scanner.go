package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanOptions configures the directory scanning behavior
type ScanOptions struct {
	// Extensions is a list of file name suffixes to include (e.g., ".py").
	// Matching is case-sensitive, like find -name '*.py'.
	Extensions []string
	// ExcludeDirs is a list of directory names to skip (e.g., "__pycache__")
	ExcludeDirs []string
	// SkipHidden skips directories whose name starts with "."
	SkipHidden bool
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Files contains the matched paths, each prefixed with the scanned root
	Files []string
	// Errors contains non-fatal errors encountered below the root
	Errors []error
}

// RootError reports a root directory that cannot be scanned at all.
type RootError struct {
	Root string
	Err  error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("cannot scan %s: %v", e.Root, e.Err)
}

func (e *RootError) Unwrap() error {
	return e.Err
}

// ScanDirectory walks root recursively and collects every regular file
// whose name matches one of opts.Extensions. An empty extension list
// matches every file. Returned paths are sorted.
func ScanDirectory(root string, opts ScanOptions) (*ScanResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, &RootError{Root: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &RootError{Root: root, Err: fmt.Errorf("not a directory")}
	}

	// A root we cannot list is fatal; unreadable subdirectories are not.
	if _, err := os.ReadDir(root); err != nil {
		return nil, &RootError{Root: root, Err: err}
	}

	result := &ScanResult{
		Files:  make([]string, 0),
		Errors: make([]error, 0),
	}

	excludeMap := make(map[string]bool)
	for _, dir := range opts.ExcludeDirs {
		excludeMap[dir] = true
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("error accessing %s: %w", path, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path == root {
			return nil
		}

		if d.IsDir() {
			name := d.Name()
			if excludeMap[name] || (opts.SkipHidden && strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}

		if !MatchesExtension(d.Name(), opts.Extensions) {
			return nil
		}

		result.Files = append(result.Files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Strings(result.Files)

	return result, nil
}

// ScanRoots scans each root in order and concatenates the results.
// The first root that cannot be scanned aborts the whole scan.
func ScanRoots(roots []string, opts ScanOptions) (*ScanResult, error) {
	combined := &ScanResult{
		Files:  make([]string, 0),
		Errors: make([]error, 0),
	}

	for _, root := range roots {
		result, err := ScanDirectory(root, opts)
		if err != nil {
			return nil, err
		}
		combined.Files = append(combined.Files, result.Files...)
		combined.Errors = append(combined.Errors, result.Errors...)
	}

	return combined, nil
}

// MatchesExtension reports whether name ends with one of exts.
// Extensions given without a leading dot are treated as if they had one.
func MatchesExtension(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	for _, ext := range exts {
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
