package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrImportCycle describes a file that (transitively) imports itself. No
// function in this package returns it: [Context.Enter] reports a revisited
// path through its boolean result instead.
var ErrImportCycle = errors.New("import cycle detected")

// ErrImportNotFound is returned when an import path resolves under neither
// the base directory nor any search directory.
var ErrImportNotFound = errors.New("import not found")

// Context carries the state of a single top-level Compile call: the base
// directory imports resolve relative to, the repeatable --import-dir search
// path, and the set of canonical paths already visited. A fresh Context is
// constructed per top-level compile (spec.md §5's "no global state" note,
// and SPEC_FULL's explicit per-Compile-call cycle state requirement) so two
// independent compiles in the same process never share cycle state.
type Context struct {
	BaseDir    string
	SearchDirs []string
	visited    map[string]bool
}

// NewContext creates a Context seeded with the directory the top-level file
// was read from.
func NewContext(baseDir string, searchDirs []string) *Context {
	return &Context{BaseDir: baseDir, SearchDirs: searchDirs, visited: map[string]bool{}}
}

// Resolve finds path under the base directory, falling back to each search
// directory in order (spec.md §4.2 step 1 -> step 2), and returns the
// resulting absolute path (from [filepath.Abs]; symbolic links are not
// resolved).
func (c *Context) Resolve(path string) (string, error) {
	candidates := make([]string, 0, 1+len(c.SearchDirs))
	candidates = append(candidates, filepath.Join(c.BaseDir, path))

	for _, dir := range c.SearchDirs {
		candidates = append(candidates, filepath.Join(dir, path))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return "", err
			}

			return abs, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrImportNotFound, path)
}

// Enter marks canonicalPath as visited for the lifetime of this Context and
// reports whether it was already visited. The compiler treats a revisit as
// a no-op rather than fatal -- a
// diamond-shaped (non-cyclic) import graph revisits the same file safely,
// and spec.md §5 only requires the DFS to guard against true cycles, not
// reject repeated non-cyclic imports.
func (c *Context) Enter(canonicalPath string) (alreadyVisited bool) {
	if c.visited[canonicalPath] {
		return true
	}

	c.visited[canonicalPath] = true

	return false
}
