package diagfmt

import (
	"os"
	"path/filepath"
	"strings"
)

func formatPath(path string, mode PathMode, base string) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeRelative:
		return relativeTo(path, base)
	default:
		if rel := relativeTo(path, base); len(rel) < len(path) && !strings.HasPrefix(rel, "..") {
			return rel
		}
		return path
	}
}

func relativeTo(path, base string) string {
	// Virtual files such as "<stdin>" have no place on disk.
	if strings.HasPrefix(path, "<") {
		return path
	}
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return path
		}
		base = wd
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
