// Package enumerator produces the ordered list of candidate file paths a
// search run walks, following the same recursive-descent approach and
// hidden-entry exclusion rule as the directory scanner this package is
// adapted from, generalized from extension/pattern filename filtering to
// plain recursive file discovery, and extended to follow symlinked
// directories since filepath.WalkDir never descends into them on its own.
package enumerator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xerg-dev/xerg/internal/xerrors"
)

// maxSymlinkDepth bounds recursion so a symlink cycle is reported as an
// EnumerationError rather than walked forever.
const maxSymlinkDepth = 256

// Result holds the ordered paths a walk discovered and any non-fatal
// errors encountered along the way. A path appears in Files in the order
// it was discovered; traversal errors never remove already-found paths.
type Result struct {
	Files  []string
	Errors []*xerrors.EnumerationError
}

// Enumerate walks root and returns every regular file beneath it,
// skipping hidden files and directories (names beginning with "."),
// pruning special files, and following symlinked directories. If root is
// itself a regular file (or a symlink to one), Result.Files contains
// exactly that one path.
func Enumerate(root string) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, xerrors.NewConfigError("root", "cannot access path", err)
	}

	if !info.IsDir() {
		if !info.Mode().IsRegular() {
			return nil, xerrors.NewConfigError("root", "not a regular file or directory", nil)
		}
		resolved, err := filepath.Abs(root)
		if err != nil {
			return nil, xerrors.NewConfigError("root", "cannot resolve absolute path", err)
		}
		return &Result{Files: []string{resolved}}, nil
	}

	result := &Result{Files: make([]string, 0)}
	walk(root, 0, result)
	return result, nil
}

// walk recursively visits path, which is known to be a directory (root
// itself, or a plain or symlinked subdirectory reached from it). depth
// counts directory levels crossed so far, including symlink hops, and is
// the only cycle guard: a symlinked directory is followed exactly like a
// real one, with no separate visited-inode bookkeeping.
func walk(path string, depth int, result *Result) {
	if depth > maxSymlinkDepth {
		result.Errors = append(result.Errors, xerrors.NewEnumerationError(path,
			fmt.Errorf("recursion depth exceeded %d, possible symlink cycle", maxSymlinkDepth)))
		return
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		result.Errors = append(result.Errors, xerrors.NewEnumerationError(path, err))
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		childPath := filepath.Join(path, name)

		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 {
			target, err := os.Stat(childPath)
			if err != nil {
				result.Errors = append(result.Errors, xerrors.NewEnumerationError(childPath, err))
				continue
			}
			isDir = target.IsDir()
			if !isDir && !target.Mode().IsRegular() {
				continue
			}
		} else if !entry.Type().IsRegular() && !isDir {
			continue
		}

		if isDir {
			walk(childPath, depth+1, result)
			continue
		}

		absPath, err := filepath.Abs(childPath)
		if err != nil {
			result.Errors = append(result.Errors, xerrors.NewEnumerationError(childPath, err))
			continue
		}
		result.Files = append(result.Files, absPath)
	}
}

// Sorted returns a copy of files in lexical order, used by callers that
// need deterministic output independent of filesystem iteration order.
func Sorted(files []string) []string {
	out := make([]string, len(files))
	copy(out, files)
	sort.Strings(out)
	return out
}
