// Package classify maps items to destination folder keys and maintains the
// folder index used by the exclusion model, copier, and verifier.
package classify

import (
	"path/filepath"
	"strings"
)

// FolderKey is a normalized, separator-agnostic relative destination path.
// Segments are always joined with '/' regardless of OS; only the filesystem
// boundary renders an OS-specific path.
type FolderKey string

// NewFolderKey joins path segments into a key, dropping empty segments.
func NewFolderKey(segments ...string) FolderKey {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return FolderKey(strings.Join(parts, "/"))
}

// Segments splits the key back into its path segments.
func (k FolderKey) Segments() []string {
	if k == "" {
		return nil
	}
	return strings.Split(string(k), "/")
}

// Filesystem renders the key as an OS-specific relative path.
func (k FolderKey) Filesystem() string {
	return filepath.FromSlash(string(k))
}

// WithPrefix prepends prefix (underscore-separated) to the last segment
// only, leaving ancestor segments untouched.
func (k FolderKey) WithPrefix(prefix string) FolderKey {
	if prefix == "" || k == "" {
		return k
	}
	segments := k.Segments()
	segments[len(segments)-1] = prefix + "_" + segments[len(segments)-1]
	return NewFolderKey(segments...)
}

var reservedChars = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", "\"", "_",
	"/", "_", "\\", "_", "|", "_", "?", "_", "*", "_",
)

// Sanitize makes a camera or lens label safe to use as a path segment:
// filesystem-reserved characters and whitespace runs become single
// underscores, repeated underscores collapse, and leading/trailing
// underscores are trimmed.
func Sanitize(name string) string {
	s := reservedChars.Replace(name)
	s = strings.Join(strings.Fields(s), "_")

	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return strings.Trim(s, "_")
}
