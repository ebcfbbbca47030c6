// Package fsutil holds small filesystem-path predicates used by the
// walker: glob and substring matching against exclusion patterns and
// hidden-entry detection.
package fsutil

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MatchesAny reports whether relPath matches any of the doublestar globs.
// relPath is normalized to forward slashes before matching, so callers may
// pass OS-native paths directly. Empty patterns and match errors are
// treated as non-matches.
func MatchesAny(relPath string, globs []string) bool {
	normalized := filepath.ToSlash(relPath)
	for _, g := range globs {
		if g == "" {
			continue
		}
		if ok, err := doublestar.Match(g, normalized); err == nil && ok {
			return true
		}
	}
	return false
}

// MatchesSubstring reports whether path contains any of the substrings.
func MatchesSubstring(path string, substrings []string) bool {
	for _, s := range substrings {
		if s != "" && strings.Contains(path, s) {
			return true
		}
	}
	return false
}

// IsHidden reports whether a directory entry name is a dotfile, excluding
// the "." and ".." self/parent entries.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
