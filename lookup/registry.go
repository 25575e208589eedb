// Package lookup is the web-search boundary used by report enrichment.
//
// A Searcher turns a free-text query into a block of result text that
// contains candidate URLs. Searchers are registered by name so the
// configuration can pick one; "duckduckgo" is registered by default.
package lookup

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Searcher returns result text for query. The text is opaque to callers
// beyond containing zero or more URLs.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// SearcherFunc adapts a function to Searcher.
type SearcherFunc func(ctx context.Context, query string) (string, error)

func (f SearcherFunc) Search(ctx context.Context, query string) (string, error) {
	return f(ctx, query)
}

type registry struct {
	entries map[string]Searcher
	mu      sync.RWMutex
}

var register = &registry{
	entries: map[string]Searcher{
		DuckDuckGoName: NewDuckDuckGo(),
	},
}

// Register adds a new searcher to the global registry.
// Returns ErrAlreadyExists if the name is taken. Use Replace to swap an
// existing searcher.
func Register(name string, s Searcher) error {
	if name == "" {
		return ErrEmptyName
	}

	register.mu.Lock()
	defer register.mu.Unlock()

	if _, exists := register.entries[name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, name)
	}

	register.entries[name] = s
	return nil
}

// Replace swaps the searcher registered under name.
// Returns ErrNotFound if nothing is registered under that name.
func Replace(name string, s Searcher) error {
	if name == "" {
		return ErrEmptyName
	}

	register.mu.Lock()
	defer register.mu.Unlock()

	if _, exists := register.entries[name]; !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	register.entries[name] = s
	return nil
}

// Get retrieves a searcher by name.
func Get(name string) (Searcher, bool) {
	register.mu.RLock()
	defer register.mu.RUnlock()

	s, exists := register.entries[name]
	return s, exists
}

// List returns the registered searcher names, sorted.
func List() []string {
	register.mu.RLock()
	defer register.mu.RUnlock()

	names := make([]string, 0, len(register.entries))
	for name := range register.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Search dispatches query to the named searcher.
// Searcher errors are wrapped with the searcher name.
func Search(ctx context.Context, name, query string) (string, error) {
	register.mu.RLock()
	s, exists := register.entries[name]
	register.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}

	text, err := s.Search(ctx, query)
	if err != nil {
		return "", fmt.Errorf("searcher %s failed: %w", name, err)
	}

	return text, nil
}
