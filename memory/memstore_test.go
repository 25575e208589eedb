package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/tailored-agentic-units/coach/memory"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewMemoryStore()

	err := store.Save(ctx,
		memory.Entry{Key: "transcripts/b.json", Value: []byte("b")},
		memory.Entry{Key: "checkpoints/a.json", Value: []byte("a")},
	)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	keys, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"checkpoints/a.json", "transcripts/b.json"}
	if len(keys) != len(want) || keys[0] != want[0] || keys[1] != want[1] {
		t.Errorf("List() = %v, want %v", keys, want)
	}

	entries, err := store.Load(ctx, "checkpoints/a.json")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(entries[0].Value) != "a" {
		t.Errorf("got %q, want %q", entries[0].Value, "a")
	}

	// Loaded values are copies.
	entries[0].Value[0] = 'z'
	again, _ := store.Load(ctx, "checkpoints/a.json")
	if string(again[0].Value) != "a" {
		t.Errorf("stored value mutated through Load result: %q", again[0].Value)
	}

	if err := store.Delete(ctx, "checkpoints/a.json", "missing"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load(ctx, "checkpoints/a.json"); !errors.Is(err, memory.ErrKeyNotFound) {
		t.Errorf("got %v, want ErrKeyNotFound", err)
	}
}

func TestMemoryStore_EmptyKey(t *testing.T) {
	err := memory.NewMemoryStore().Save(context.Background(), memory.Entry{})
	if !errors.Is(err, memory.ErrSaveFailed) {
		t.Errorf("got %v, want ErrSaveFailed", err)
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{[]string{memory.NamespaceCheckpoints, "run-1", "evaluating"}, "checkpoints/run-1/evaluating"},
		{[]string{"/transcripts/", "", "case1.json"}, "transcripts/case1.json"},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := memory.Key(tt.parts...); got != tt.want {
			t.Errorf("Key(%v) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}

func TestWithPrefix(t *testing.T) {
	keys := []string{"checkpoints/a", "checkpointsx/b", "transcripts/c"}
	got := memory.WithPrefix(keys, memory.NamespaceCheckpoints)
	if len(got) != 1 || got[0] != "checkpoints/a" {
		t.Errorf("WithPrefix() = %v, want [checkpoints/a]", got)
	}
}
