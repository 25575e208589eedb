// Package state provides a typed state graph for sequencing role nodes.
//
// A graph is a set of named nodes connected by edges with optional
// predicates. Execution starts at the entry point (or any named node),
// runs one node at a time, evaluates the outgoing edges of the node that
// just ran in registration order and follows the first one whose predicate
// holds. Execution stops at an exit point.
//
// The state type is a type parameter. Nodes receive a value and return the
// updated value, so a node that fails leaves the caller's state untouched:
// the ExecutionError carries the state as it was before the failing node,
// which makes the failed step retryable with ExecuteFrom.
//
//	g, _ := state.NewGraphWithDeps[Doc](config.DefaultGraphConfig("review"), observer, nil)
//	g.AddNode("draft", draftNode)
//	g.AddNode("review", reviewNode)
//	g.AddEdge("draft", "review", nil)
//	g.SetEntryPoint("draft")
//	g.SetExitPoint("review")
//	out, err := g.Execute(ctx, doc)
//
// # Checkpointing
//
// With a non-zero checkpoint interval the graph saves a Checkpoint after
// every Nth node. Resume loads the checkpoint for a run and continues from
// the node after the one that was saved.
package state
