// Package indexing implements the workspace indexer (C12): recursive
// discovery of host-language files under a workspace root, work-estimated
// batch parallelism for the initial build, progress notifications, and a
// file-watcher-driven incremental update path.
package indexing

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover walks root and returns every file path matching one of
// extensions, skipping anything matched by exclude (doublestar glob
// patterns, relative to root).
func Discover(root string, extensions, exclude []string) ([]string, error) {
	extSet := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		extSet[e] = true
	}

	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // best-effort: skip unreadable entries, keep walking
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if matchesAny(exclude, rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if extSet[filepath.Ext(path)] {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// FileSize stat's path, returning 0 on error (a vanished file between
// Discover and batching is treated as zero-cost rather than failing the
// whole batch plan).
func FileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
