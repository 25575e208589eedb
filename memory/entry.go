package memory

import (
	"path"
	"strings"
)

// Top-level namespace conventions for the memory key hierarchy.
const (
	NamespaceCheckpoints = "checkpoints"
	NamespaceTranscripts = "transcripts"
)

// Entry is a key-value pair in the memory namespace. Keys are /-separated
// hierarchical paths and values are raw bytes.
type Entry struct {
	Key   string
	Value []byte
}

// Key joins non-empty parts into a hierarchical key.
func Key(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			kept = append(kept, p)
		}
	}
	return path.Join(kept...)
}

// WithPrefix filters keys to those under prefix.
func WithPrefix(keys []string, prefix string) []string {
	prefix = strings.TrimSuffix(prefix, "/") + "/"

	var out []string
	for _, k := range keys {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out
}
