package state_test

import (
	"context"
	"slices"

	"github.com/tailored-agentic-units/coach/orchestrate/state"
)

// run is a minimal graph state: an identifier, a visit trail and a counter.
type run struct {
	ID    string   `json:"id"`
	Trail []string `json:"trail"`
	Count int      `json:"count"`
}

func (r run) RunID() string { return r.ID }

func visit(name string) state.StateNode[run] {
	return state.NewFunctionNode(func(_ context.Context, r run) (run, error) {
		r.Trail = append(slices.Clone(r.Trail), name)
		r.Count++
		return r, nil
	})
}

func failing(err error) state.StateNode[run] {
	return state.NewFunctionNode(func(_ context.Context, r run) (run, error) {
		return r, err
	})
}
