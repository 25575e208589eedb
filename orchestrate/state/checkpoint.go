package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tailored-agentic-units/coach/memory"
)

// Checkpoint is the state saved after Node completed.
type Checkpoint[S any] struct {
	RunID   string    `json:"run_id"`
	Node    string    `json:"node"`
	State   S         `json:"state"`
	SavedAt time.Time `json:"saved_at"`
}

// CheckpointStore persists checkpoints keyed by run ID.
//
// Checkpoint lifecycle:
//  1. Graph execution saves a Checkpoint at configured intervals via Save
//  2. On reaching an exit point, checkpoints are deleted (unless Preserve=true)
//  3. On failure, checkpoints remain available for Resume
//
// Implementations must be safe for concurrent graph executions.
type CheckpointStore[S any] interface {
	// Save persists cp, overwriting any checkpoint for the same RunID.
	Save(ctx context.Context, cp Checkpoint[S]) error

	// Load retrieves the checkpoint for runID or ErrCheckpointNotFound.
	Load(ctx context.Context, runID string) (Checkpoint[S], error)

	// Delete removes the checkpoint for runID. Missing IDs are ignored.
	Delete(ctx context.Context, runID string) error

	// List returns every run ID with a stored checkpoint, sorted.
	List(ctx context.Context) ([]string, error)
}

type memoryCheckpointStore[S any] struct {
	checkpoints map[string]Checkpoint[S]
	mu          sync.RWMutex
}

// NewMemoryCheckpointStore creates a CheckpointStore with in-memory storage.
// Checkpoints are lost when the process terminates.
func NewMemoryCheckpointStore[S any]() CheckpointStore[S] {
	return &memoryCheckpointStore[S]{
		checkpoints: make(map[string]Checkpoint[S]),
	}
}

func (m *memoryCheckpointStore[S]) Save(_ context.Context, cp Checkpoint[S]) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.checkpoints[cp.RunID] = cp
	return nil
}

func (m *memoryCheckpointStore[S]) Load(_ context.Context, runID string) (Checkpoint[S], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cp, exists := m.checkpoints[runID]
	if !exists {
		return Checkpoint[S]{}, fmt.Errorf("%w: %s", ErrCheckpointNotFound, runID)
	}
	return cp, nil
}

func (m *memoryCheckpointStore[S]) Delete(_ context.Context, runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.checkpoints, runID)
	return nil
}

func (m *memoryCheckpointStore[S]) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.checkpoints))
	for id := range m.checkpoints {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// storeCheckpointStore persists checkpoints as JSON entries in a memory.Store
// under the checkpoints namespace.
type storeCheckpointStore[S any] struct {
	store memory.Store
}

// NewStoreCheckpointStore creates a CheckpointStore backed by store. The
// state type must round-trip through encoding/json.
func NewStoreCheckpointStore[S any](store memory.Store) CheckpointStore[S] {
	return &storeCheckpointStore[S]{store: store}
}

func checkpointKey(runID string) string {
	return memory.Key(memory.NamespaceCheckpoints, runID+".json")
}

func (s *storeCheckpointStore[S]) Save(ctx context.Context, cp Checkpoint[S]) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint %s: %w", cp.RunID, err)
	}
	return s.store.Save(ctx, memory.Entry{Key: checkpointKey(cp.RunID), Value: data})
}

func (s *storeCheckpointStore[S]) Load(ctx context.Context, runID string) (Checkpoint[S], error) {
	entries, err := s.store.Load(ctx, checkpointKey(runID))
	if err != nil {
		if errors.Is(err, memory.ErrKeyNotFound) {
			return Checkpoint[S]{}, fmt.Errorf("%w: %s", ErrCheckpointNotFound, runID)
		}
		return Checkpoint[S]{}, err
	}

	var cp Checkpoint[S]
	if err := json.Unmarshal(entries[0].Value, &cp); err != nil {
		return Checkpoint[S]{}, fmt.Errorf("failed to decode checkpoint %s: %w", runID, err)
	}
	return cp, nil
}

func (s *storeCheckpointStore[S]) Delete(ctx context.Context, runID string) error {
	return s.store.Delete(ctx, checkpointKey(runID))
}

func (s *storeCheckpointStore[S]) List(ctx context.Context) ([]string, error) {
	keys, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, key := range memory.WithPrefix(keys, memory.NamespaceCheckpoints) {
		name := strings.TrimPrefix(key, memory.NamespaceCheckpoints+"/")
		if strings.Contains(name, "/") || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// NewCheckpointStore resolves a store by name: "memory" keeps checkpoints in
// process, "store" persists them through backing.
func NewCheckpointStore[S any](name string, backing memory.Store) (CheckpointStore[S], error) {
	switch name {
	case "", "memory":
		return NewMemoryCheckpointStore[S](), nil
	case "store":
		if backing == nil {
			return nil, fmt.Errorf("checkpoint store %q requires a backing memory store", name)
		}
		return NewStoreCheckpointStore[S](backing), nil
	default:
		return nil, fmt.Errorf("unknown checkpoint store: %s", name)
	}
}
