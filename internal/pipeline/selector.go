package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dynapress/dynapress/internal/compress"
	"github.com/dynapress/dynapress/internal/errdefs"
)

// Select enumerates files directly under rootDir (non-recursive) whose name
// contains any of the case-sensitive include tokens and does not carry the
// processed marker, so reruns never pick up derived outputs. Paths are
// sorted lexicographically for a deterministic intake order. An empty
// result is a valid outcome, not an error.
func Select(rootDir string, tokens []string) ([]string, error) {
	fi, err := os.Stat(rootDir)
	if err != nil || !fi.IsDir() {
		return nil, &errdefs.NotFoundError{Path: rootDir}
	}

	// The root exists, so a read failure here is not a not-found condition.
	entries, err := os.ReadDir(rootDir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rootDir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if compress.IsProcessed(name) {
			continue
		}
		if !matchesAny(name, tokens) {
			continue
		}
		files = append(files, filepath.Join(rootDir, name))
	}
	sort.Strings(files)
	return files, nil
}

func matchesAny(name string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(name, tok) {
			return true
		}
	}
	return false
}
