package session_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/tailored-agentic-units/coach/core/protocol"
	"github.com/tailored-agentic-units/coach/session"
)

func TestNewWindow_Limits(t *testing.T) {
	tests := []struct {
		limit   int
		wantErr bool
	}{
		{0, false},
		{3, false},
		{50, false},
		{-1, true},
		{1, true},
		{2, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.limit), func(t *testing.T) {
			_, err := session.NewWindow(tt.limit)
			if tt.wantErr != errors.Is(err, session.ErrInvalidWindow) {
				t.Errorf("NewWindow(%d) error = %v, wantErr %v", tt.limit, err, tt.wantErr)
			}
		})
	}
}

func TestWindow_DiscardsOldest(t *testing.T) {
	w, _ := session.NewWindow(3)

	for i := 1; i <= 7; i++ {
		w.Append(protocol.NewMessage(protocol.RoleUser, fmt.Sprintf("m%d", i)))
		if w.Len() > 3 {
			t.Fatalf("window grew to %d after %d appends", w.Len(), i)
		}
	}

	items := w.Items()
	want := []string{"m5", "m6", "m7"}
	for i, msg := range items {
		if msg.Content != want[i] {
			t.Errorf("items[%d] = %q, want %q", i, msg.Content, want[i])
		}
	}
}

func TestWindow_AppendReportsDropped(t *testing.T) {
	w, _ := session.NewWindow(3)
	w.Append(
		protocol.NewMessage(protocol.RoleUser, "a"),
		protocol.NewMessage(protocol.RoleAssistant, "b"),
	)

	dropped := w.Append(
		protocol.NewMessage(protocol.RoleUser, "c"),
		protocol.NewMessage(protocol.RoleAssistant, "d"),
	)
	if dropped != 1 {
		t.Errorf("got dropped %d, want 1", dropped)
	}
}

func TestWindow_Unbounded(t *testing.T) {
	w, _ := session.NewWindow(0)
	for i := 0; i < 100; i++ {
		w.Append(protocol.NewMessage(protocol.RoleUser, "x"))
	}
	if w.Len() != 100 {
		t.Errorf("got %d, want 100", w.Len())
	}
}

func TestWindow_AtAndLastIndex(t *testing.T) {
	w, _ := session.NewWindow(0)
	w.Append(
		protocol.NewMessage(protocol.RoleUser, "hi"),
		protocol.NewMessage(protocol.RoleAssistant, "q1"),
		protocol.NewMessage(protocol.RoleUser, "a1"),
	)

	if m, ok := w.At(-2); !ok || m.Content != "q1" {
		t.Errorf("At(-2) = %+v, %v", m, ok)
	}
	if _, ok := w.At(3); ok {
		t.Error("At(3) should be out of range")
	}
	if got := w.LastIndex(protocol.RoleAssistant); got != 1 {
		t.Errorf("LastIndex(assistant) = %d, want 1", got)
	}
	if got := w.LastIndex(protocol.RoleSystem); got != -1 {
		t.Errorf("LastIndex(system) = %d, want -1", got)
	}
}

func TestWindow_Items_DefensiveCopy(t *testing.T) {
	w, _ := session.NewWindow(0)
	w.Append(protocol.NewMessage(protocol.RoleUser, "original"))

	items := w.Items()
	items[0].Content = "modified"

	if m, _ := w.At(0); m.Content != "original" {
		t.Errorf("window mutated through Items: %q", m.Content)
	}
}

func TestWindow_UnmarshalRejectsOverflow(t *testing.T) {
	var w session.Window
	data := []byte(`{"limit":3,"items":[{"role":"user","content":"1"},{"role":"user","content":"2"},{"role":"user","content":"3"},{"role":"user","content":"4"}]}`)

	if err := json.Unmarshal(data, &w); !errors.Is(err, session.ErrInvalidWindow) {
		t.Errorf("got %v, want ErrInvalidWindow", err)
	}
}
