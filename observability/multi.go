package observability

import "context"

// MultiObserver forwards each event to several observers in order.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver combines observers. Nil and no-op observers are skipped
// and nested MultiObservers are flattened, so each event reaches every
// distinct back-end once per registration.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	m := &MultiObserver{observers: make([]Observer, 0, len(observers))}
	for _, obs := range observers {
		switch o := obs.(type) {
		case nil, NoOpObserver:
		case *MultiObserver:
			m.observers = append(m.observers, o.observers...)
		default:
			m.observers = append(m.observers, o)
		}
	}
	return m
}

// Len reports how many observers receive events.
func (m *MultiObserver) Len() int { return len(m.observers) }

func (m *MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m.observers {
		obs.OnEvent(ctx, event)
	}
}
