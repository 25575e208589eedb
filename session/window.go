package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tailored-agentic-units/coach/core/protocol"
)

// MinWindow is the smallest non-zero window that still holds a full
// question, answer and follow-up exchange.
const MinWindow = 3

var ErrInvalidWindow = errors.New("invalid message window")

// Window is a bounded message buffer. Appending beyond the limit discards
// the oldest entries. A zero limit means unbounded.
type Window struct {
	limit int
	items []protocol.Message
}

// NewWindow creates an empty window holding at most limit messages.
func NewWindow(limit int) (Window, error) {
	if limit < 0 || (limit > 0 && limit < MinWindow) {
		return Window{}, fmt.Errorf("%w: limit %d (must be 0 or >= %d)", ErrInvalidWindow, limit, MinWindow)
	}
	return Window{limit: limit}, nil
}

// Append adds messages and returns how many old entries were discarded.
func (w *Window) Append(msgs ...protocol.Message) int {
	w.items = append(w.items, msgs...)
	if w.limit == 0 || len(w.items) <= w.limit {
		return 0
	}

	dropped := len(w.items) - w.limit
	kept := make([]protocol.Message, w.limit)
	copy(kept, w.items[dropped:])
	w.items = kept
	return dropped
}

func (w Window) Len() int   { return len(w.items) }
func (w Window) Limit() int { return w.limit }

// Items returns a copy of the buffered messages, oldest first.
func (w Window) Items() []protocol.Message {
	out := make([]protocol.Message, len(w.items))
	copy(out, w.items)
	return out
}

// At returns the message at index i; negative indexes count from the end.
func (w Window) At(i int) (protocol.Message, bool) {
	if i < 0 {
		i += len(w.items)
	}
	if i < 0 || i >= len(w.items) {
		return protocol.Message{}, false
	}
	return w.items[i], true
}

// LastIndex returns the index of the newest message with role, or -1.
func (w Window) LastIndex(role protocol.Role) int {
	return protocol.LastIndex(w.items, role)
}

func (w Window) Clone() Window {
	c := Window{limit: w.limit}
	if w.items != nil {
		c.items = w.Items()
	}
	return c
}

type windowJSON struct {
	Limit int                `json:"limit"`
	Items []protocol.Message `json:"items"`
}

func (w Window) MarshalJSON() ([]byte, error) {
	items := w.items
	if items == nil {
		items = []protocol.Message{}
	}
	return json.Marshal(windowJSON{Limit: w.limit, Items: items})
}

func (w *Window) UnmarshalJSON(data []byte) error {
	var raw windowJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	nw, err := NewWindow(raw.Limit)
	if err != nil {
		return err
	}
	if raw.Limit > 0 && len(raw.Items) > raw.Limit {
		return fmt.Errorf("%w: %d items exceed limit %d", ErrInvalidWindow, len(raw.Items), raw.Limit)
	}

	nw.items = raw.Items
	*w = nw
	return nil
}
