package state_test

import (
	"testing"

	"github.com/tailored-agentic-units/coach/orchestrate/state"
)

func countAbove(n int) state.TransitionPredicate[run] {
	return func(r run) bool { return r.Count > n }
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name      string
		predicate state.TransitionPredicate[run]
		count     int
		want      bool
	}{
		{name: "always", predicate: state.AlwaysTransition[run](), count: 0, want: true},
		{name: "not true", predicate: state.Not(countAbove(1)), count: 2, want: false},
		{name: "not false", predicate: state.Not(countAbove(1)), count: 1, want: true},
		{name: "and all true", predicate: state.And(countAbove(1), countAbove(2)), count: 3, want: true},
		{name: "and one false", predicate: state.And(countAbove(1), countAbove(5)), count: 3, want: false},
		{name: "and empty", predicate: state.And[run](), count: 0, want: true},
		{name: "or one true", predicate: state.Or(countAbove(5), countAbove(1)), count: 3, want: true},
		{name: "or none true", predicate: state.Or(countAbove(5), countAbove(4)), count: 3, want: false},
		{name: "or empty", predicate: state.Or[run](), count: 0, want: false},
		{
			name:      "composition",
			predicate: state.And(countAbove(0), state.Not(state.Or(countAbove(10), countAbove(20)))),
			count:     5,
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.predicate(run{Count: tt.count}); got != tt.want {
				t.Errorf("predicate(count=%d) = %v, want %v", tt.count, got, tt.want)
			}
		})
	}
}
