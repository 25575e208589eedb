package agent_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/tailored-agentic-units/coach/agent"
	"github.com/tailored-agentic-units/coach/agent/mock"
)

func ollamaConfig(model string) agent.Config {
	return agent.Config{
		Provider: "ollama",
		BaseURL:  "http://localhost:11434",
		Model:    model,
	}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := agent.NewRegistry()

	if err := r.Register("mentor", ollamaConfig("qwen3:8b")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	a, err := r.Get("mentor")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if a == nil {
		t.Fatal("Get returned nil agent")
	}
	if a.ID() == "" {
		t.Error("agent has empty ID")
	}
	if a.Model() != "qwen3:8b" {
		t.Errorf("got model %q, want %q", a.Model(), "qwen3:8b")
	}

	// Second Get returns same cached instance
	a2, err := r.Get("mentor")
	if err != nil {
		t.Fatalf("second Get failed: %v", err)
	}
	if a.ID() != a2.ID() {
		t.Errorf("cached agent ID mismatch: got %q and %q", a.ID(), a2.ID())
	}
}

func TestRegistry_RegisterEmptyName(t *testing.T) {
	r := agent.NewRegistry()

	err := r.Register("", agent.Config{})
	if !errors.Is(err, agent.ErrEmptyAgentName) {
		t.Errorf("got %v, want ErrEmptyAgentName", err)
	}
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := agent.NewRegistry()

	cfg := ollamaConfig("qwen3:8b")
	if err := r.Register("mentor", cfg); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	err := r.Register("mentor", cfg)
	if !errors.Is(err, agent.ErrAgentExists) {
		t.Errorf("got %v, want ErrAgentExists", err)
	}
}

func TestRegistry_GetNotFound(t *testing.T) {
	r := agent.NewRegistry()

	_, err := r.Get("nonexistent")
	if !errors.Is(err, agent.ErrAgentNotFound) {
		t.Errorf("got %v, want ErrAgentNotFound", err)
	}
}

func TestRegistry_GetInvalidConfig(t *testing.T) {
	r := agent.NewRegistry()
	r.Register("broken", agent.Config{Provider: "carrier-pigeon", Model: "x"})

	if _, err := r.Get("broken"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestRegistry_Replace(t *testing.T) {
	r := agent.NewRegistry()

	if err := r.Register("mentor", ollamaConfig("qwen3:8b")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Get to populate cache
	a1, err := r.Get("mentor")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if err := r.Replace("mentor", ollamaConfig("qwen3:14b")); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	// Get should re-instantiate (different agent ID)
	a2, err := r.Get("mentor")
	if err != nil {
		t.Fatalf("Get after Replace failed: %v", err)
	}
	if a1.ID() == a2.ID() {
		t.Error("expected new agent instance after Replace, got same ID")
	}
	if a2.Model() != "qwen3:14b" {
		t.Errorf("got model %q, want %q", a2.Model(), "qwen3:14b")
	}
}

func TestRegistry_ReplaceErrors(t *testing.T) {
	r := agent.NewRegistry()

	if err := r.Replace("", agent.Config{}); !errors.Is(err, agent.ErrEmptyAgentName) {
		t.Errorf("got %v, want ErrEmptyAgentName", err)
	}
	if err := r.Replace("nonexistent", agent.Config{}); !errors.Is(err, agent.ErrAgentNotFound) {
		t.Errorf("got %v, want ErrAgentNotFound", err)
	}
}

func TestRegistry_Set(t *testing.T) {
	r := agent.NewRegistry()
	m := mock.New()

	if err := r.Set("interviewer", m); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if !r.Has("interviewer") {
		t.Error("Has returned false after Set")
	}

	got, err := r.Get("interviewer")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID() != m.ID() {
		t.Errorf("got agent %q, want %q", got.ID(), m.ID())
	}
}

func TestRegistry_List(t *testing.T) {
	r := agent.NewRegistry()

	r.Register("reporter", ollamaConfig("llama3:70b"))
	r.Register("mentor", ollamaConfig("qwen3:8b"))

	infos := r.List()
	if len(infos) != 2 {
		t.Fatalf("got %d entries, want 2", len(infos))
	}

	// Sorted by name
	if infos[0].Name != "mentor" {
		t.Errorf("got first name %q, want %q", infos[0].Name, "mentor")
	}
	if infos[1].Name != "reporter" || infos[1].Model != "llama3:70b" {
		t.Errorf("got second entry %+v", infos[1])
	}
	if infos[0].Provider != "ollama" {
		t.Errorf("got provider %q, want ollama", infos[0].Provider)
	}
}

func TestRegistry_ListEmpty(t *testing.T) {
	r := agent.NewRegistry()

	infos := r.List()
	if len(infos) != 0 {
		t.Errorf("got %d entries, want 0", len(infos))
	}
}

func TestRegistry_Unregister(t *testing.T) {
	r := agent.NewRegistry()

	r.Register("mentor", ollamaConfig("qwen3:8b"))

	// Populate cache
	r.Get("mentor")

	if err := r.Unregister("mentor"); err != nil {
		t.Fatalf("Unregister failed: %v", err)
	}

	// Get should fail
	_, err := r.Get("mentor")
	if !errors.Is(err, agent.ErrAgentNotFound) {
		t.Errorf("got %v, want ErrAgentNotFound after Unregister", err)
	}

	if err := r.Unregister("mentor"); !errors.Is(err, agent.ErrAgentNotFound) {
		t.Errorf("got %v, want ErrAgentNotFound", err)
	}
}

func TestRegistry_ConcurrentGet(t *testing.T) {
	r := agent.NewRegistry()
	r.Register("mentor", ollamaConfig("qwen3:8b"))

	var wg sync.WaitGroup
	ids := make([]string, 20)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, err := r.Get("mentor")
			if err != nil {
				t.Errorf("Get failed: %v", err)
				return
			}
			ids[i] = a.ID()
		}(i)
	}
	wg.Wait()

	for i, id := range ids {
		if id != ids[0] {
			t.Errorf("goroutine %d got agent %q, want %q", i, id, ids[0])
		}
	}
}
