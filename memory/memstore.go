package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type memStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryStore creates a Store that keeps entries in process memory.
// Values are copied on Save and Load.
func NewMemoryStore() Store {
	return &memStore{entries: make(map[string][]byte)}
}

func (s *memStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *memStore) Load(_ context.Context, keys ...string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		v, ok := s.entries[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		entries = append(entries, Entry{Key: key, Value: append([]byte(nil), v...)})
	}
	return entries, nil
}

func (s *memStore) Save(_ context.Context, entries ...Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		if e.Key == "" {
			return fmt.Errorf("%w: empty key", ErrSaveFailed)
		}
		s.entries[e.Key] = append([]byte(nil), e.Value...)
	}
	return nil
}

func (s *memStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.entries, k)
	}
	return nil
}
