package state

// Edge represents a transition between nodes in a state graph.
type Edge[S any] struct {
	// From is the source node name
	From string

	// To is the destination node name
	To string

	// Name describes the predicate for events and errors (e.g. "stop_requested")
	Name string

	// Predicate determines if this edge can be traversed (nil = always transition)
	Predicate TransitionPredicate[S]
}

// TransitionPredicate evaluates state to determine if an edge can be traversed.
type TransitionPredicate[S any] func(state S) bool

// AlwaysTransition returns a predicate that always evaluates to true.
func AlwaysTransition[S any]() TransitionPredicate[S] {
	return func(S) bool { return true }
}

// Not inverts a predicate.
func Not[S any](predicate TransitionPredicate[S]) TransitionPredicate[S] {
	return func(state S) bool {
		return !predicate(state)
	}
}

// And combines predicates with logical AND (all must be true).
func And[S any](predicates ...TransitionPredicate[S]) TransitionPredicate[S] {
	return func(state S) bool {
		for _, p := range predicates {
			if !p(state) {
				return false
			}
		}
		return true
	}
}

// Or combines predicates with logical OR (at least one must be true).
func Or[S any](predicates ...TransitionPredicate[S]) TransitionPredicate[S] {
	return func(state S) bool {
		for _, p := range predicates {
			if p(state) {
				return true
			}
		}
		return false
	}
}
