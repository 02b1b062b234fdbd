package fs

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ignored reports whether a slash-separated relative path matches one of the
// configured ignore patterns. Invalid patterns never match.
func (s *Store) ignored(rel string) bool {
	for _, pattern := range s.config.Ignore {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// relativeTo returns name relative to the first root containing it.
func relativeTo(roots []string, name string) (string, bool) {
	for _, root := range roots {
		rel, err := filepath.Rel(root, name)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return filepath.ToSlash(rel), true
	}
	return "", false
}
