package state

import "context"

// Runnable is the constraint on graph state. RunID keys checkpoints.
type Runnable interface {
	RunID() string
}

// StateNode represents a computation step in a state graph.
//
// Nodes receive state, perform computation or agent calls, and return the
// updated state. A node that returns an error must not have mutated
// anything reachable from its input.
type StateNode[S Runnable] interface {
	Execute(ctx context.Context, state S) (S, error)
}

// FunctionNode wraps a function as a StateNode.
type FunctionNode[S Runnable] struct {
	fn func(ctx context.Context, state S) (S, error)
}

// NewFunctionNode creates a StateNode from a function.
func NewFunctionNode[S Runnable](fn func(context.Context, S) (S, error)) StateNode[S] {
	return &FunctionNode[S]{fn: fn}
}

// Execute runs the wrapped function with the given state.
func (n *FunctionNode[S]) Execute(ctx context.Context, state S) (S, error) {
	return n.fn(ctx, state)
}
