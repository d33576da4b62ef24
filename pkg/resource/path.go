package resource

import (
	"path"
	"strings"
)

// CleanPath normalises an absolute repository path. Relative or empty inputs
// return an empty string.
func CleanPath(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "/") {
		return ""
	}
	return path.Clean(trimmed)
}

// JoinPath appends name to parent.
func JoinPath(parent, name string) string {
	return path.Join("/", parent, name)
}

// ParentPath returns the parent of an absolute path, or "" for the root.
func ParentPath(p string) string {
	clean := CleanPath(p)
	if clean == "" || clean == "/" {
		return ""
	}
	return path.Dir(clean)
}

// BaseName returns the last segment of p.
func BaseName(p string) string {
	clean := CleanPath(p)
	if clean == "" || clean == "/" {
		return ""
	}
	return path.Base(clean)
}

func segments(p string) []string {
	clean := CleanPath(p)
	if clean == "" || clean == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(clean, "/"), "/")
}

func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.Contains(name, "/")
}
