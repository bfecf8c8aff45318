// Package fspath provides normalization and decomposition of absolute,
// slash-separated virtual paths.
//
// Every component of the virtual filesystem operates on normalized paths:
// the façade normalizes caller input once, and the router, orchestrator and
// per-shard stores assume normalized input from then on. Normalization is
// idempotent, so defensive re-normalization is harmless.
package fspath

import "strings"

// Separator is the path separator for virtual paths. Paths are always
// absolute and slash-separated regardless of host platform.
const Separator = "/"

// Root is the implicit root directory. It is never stored as an entry;
// its children have ParentPath == Root.
const Root = "/"

// Normalize collapses repeated separators and strips any trailing separator.
// The empty string and "/" both normalize to the root. Paths without a
// leading separator are anchored at the root.
func Normalize(path string) string {
	if path == "" || path == Root {
		return Root
	}

	segments := strings.Split(path, Separator)
	parts := segments[:0]
	for _, seg := range segments {
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	if len(parts) == 0 {
		return Root
	}
	return Root + strings.Join(parts, Separator)
}

// Parent returns the normalized containing directory of path. The second
// return value is false only for the root, which has no parent.
func Parent(path string) (string, bool) {
	path = Normalize(path)
	if path == Root {
		return "", false
	}
	idx := strings.LastIndex(path, Separator)
	if idx == 0 {
		return Root, true
	}
	return path[:idx], true
}

// Name returns the final segment of path, or the empty string for the root.
func Name(path string) string {
	path = Normalize(path)
	if path == Root {
		return ""
	}
	return path[strings.LastIndex(path, Separator)+1:]
}

// Split returns the segments of path in order. The root yields no segments.
func Split(path string) []string {
	path = Normalize(path)
	if path == Root {
		return nil
	}
	return strings.Split(path[1:], Separator)
}

// Join appends name to dir, normalizing the result.
func Join(dir, name string) string {
	return Normalize(dir + Separator + name)
}

// IsAncestor reports whether ancestor strictly contains path, matching on
// the segment boundary so "/a/b" is not an ancestor of "/a/b2".
func IsAncestor(ancestor, path string) bool {
	ancestor = Normalize(ancestor)
	path = Normalize(path)
	if ancestor == Root {
		return path != Root
	}
	return strings.HasPrefix(path, ancestor+Separator)
}
