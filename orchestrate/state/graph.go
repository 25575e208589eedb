package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tailored-agentic-units/coach/observability"
	"github.com/tailored-agentic-units/coach/orchestrate/config"
)

// StateGraph defines a workflow as a directed graph of nodes and edges over
// state type S.
type StateGraph[S Runnable] interface {
	// Name returns the graph identifier for event metadata
	Name() string

	// AddNode registers a computation step in the graph
	AddNode(name string, node StateNode[S]) error

	// AddEdge creates a transition between nodes (predicate can be nil for unconditional)
	AddEdge(from, to string, predicate TransitionPredicate[S]) error

	// AddNamedEdge is AddEdge with a predicate name reported in events
	AddNamedEdge(from, to, name string, predicate TransitionPredicate[S]) error

	// SetEntryPoint defines the starting node for execution
	SetEntryPoint(node string) error

	// SetExitPoint defines a terminal node (execution stops here)
	SetExitPoint(node string) error

	// Validate checks graph structure
	Validate() error

	// Execute runs the graph from the entry point
	Execute(ctx context.Context, initial S) (S, error)

	// ExecuteFrom runs the graph starting at node instead of the entry point
	ExecuteFrom(ctx context.Context, node string, initial S) (S, error)

	// Resume continues a run from its last checkpoint
	Resume(ctx context.Context, runID string) (S, error)
}

type stateGraph[S Runnable] struct {
	name                string
	nodes               map[string]StateNode[S]
	edges               map[string][]Edge[S]
	entryPoint          string
	exitPoints          map[string]bool
	maxIterations       int
	observer            observability.Observer
	checkpointStore     CheckpointStore[S]
	checkpointInterval  int
	preserveCheckpoints bool
}

// NewGraph creates a state graph from configuration. The observer is resolved
// from the observability registry and checkpoints, when enabled, are kept in
// memory.
func NewGraph[S Runnable](cfg config.GraphConfig) (StateGraph[S], error) {
	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	var store CheckpointStore[S]
	if cfg.Checkpoint.Interval > 0 {
		store, err = NewCheckpointStore[S](cfg.Checkpoint.Store, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve checkpoint store: %w", err)
		}
	}

	return NewGraphWithDeps(cfg, observer, store)
}

// NewGraphWithDeps creates a state graph with an explicit observer and
// checkpoint store. A nil observer discards events. A nil store disables
// checkpointing regardless of the configured interval.
func NewGraphWithDeps[S Runnable](cfg config.GraphConfig, observer observability.Observer, store CheckpointStore[S]) (StateGraph[S], error) {
	if observer == nil {
		observer = observability.NoOpObserver{}
	}
	if cfg.MaxIterations <= 0 {
		return nil, fmt.Errorf("max iterations must be positive, got %d", cfg.MaxIterations)
	}

	interval := cfg.Checkpoint.Interval
	if store == nil {
		interval = 0
	}

	return &stateGraph[S]{
		name:                cfg.Name,
		nodes:               make(map[string]StateNode[S]),
		edges:               make(map[string][]Edge[S]),
		exitPoints:          make(map[string]bool),
		maxIterations:       cfg.MaxIterations,
		observer:            observer,
		checkpointStore:     store,
		checkpointInterval:  interval,
		preserveCheckpoints: cfg.Checkpoint.Preserve,
	}, nil
}

func (g *stateGraph[S]) Name() string {
	return g.name
}

// AddNode registers a computation step in the graph.
//
// Nodes must have unique names. Adding a duplicate node returns an error.
func (g *stateGraph[S]) AddNode(name string, node StateNode[S]) error {
	if name == "" {
		return fmt.Errorf("node name cannot be empty")
	}

	if node == nil {
		return fmt.Errorf("node cannot be nil")
	}

	if _, exists := g.nodes[name]; exists {
		return fmt.Errorf("node %s already exists", name)
	}

	g.nodes[name] = node
	return nil
}

func (g *stateGraph[S]) AddEdge(from, to string, predicate TransitionPredicate[S]) error {
	return g.AddNamedEdge(from, to, "", predicate)
}

// AddNamedEdge creates a transition between nodes.
//
// Both nodes must exist before adding an edge. Edges from the same node are
// evaluated in the order they were added.
func (g *stateGraph[S]) AddNamedEdge(from, to, name string, predicate TransitionPredicate[S]) error {
	if from == "" {
		return fmt.Errorf("from node cannot be empty")
	}

	if to == "" {
		return fmt.Errorf("to node cannot be empty")
	}

	if _, exists := g.nodes[from]; !exists {
		return fmt.Errorf("from node %s does not exist", from)
	}

	if _, exists := g.nodes[to]; !exists {
		return fmt.Errorf("to node %s does not exist", to)
	}

	g.edges[from] = append(g.edges[from], Edge[S]{
		From:      from,
		To:        to,
		Name:      name,
		Predicate: predicate,
	})
	return nil
}

// SetEntryPoint defines the starting node for execution.
//
// The entry point node must exist. Only one entry point is allowed.
func (g *stateGraph[S]) SetEntryPoint(node string) error {
	if node == "" {
		return fmt.Errorf("entry point cannot be empty")
	}

	if g.entryPoint != "" {
		return fmt.Errorf("entry point already set to %s", g.entryPoint)
	}

	if _, exists := g.nodes[node]; !exists {
		return fmt.Errorf("entry point node %s does not exist", node)
	}

	g.entryPoint = node
	return nil
}

// SetExitPoint defines a terminal node where execution stops. Multiple exit
// points are supported.
func (g *stateGraph[S]) SetExitPoint(node string) error {
	if node == "" {
		return fmt.Errorf("exit point cannot be empty")
	}

	if _, exists := g.nodes[node]; !exists {
		return fmt.Errorf("exit point node %s does not exist", node)
	}

	g.exitPoints[node] = true
	return nil
}

// Validate ensures the graph has nodes, an existing entry point and at least
// one existing exit point.
func (g *stateGraph[S]) Validate() error {
	if len(g.nodes) == 0 {
		return fmt.Errorf("graph has no nodes")
	}

	if g.entryPoint == "" {
		return fmt.Errorf("entry point not set")
	}

	if _, exists := g.nodes[g.entryPoint]; !exists {
		return fmt.Errorf("entry point %s does not exist", g.entryPoint)
	}

	if len(g.exitPoints) == 0 {
		return fmt.Errorf("no exit points set")
	}

	for exitPoint := range g.exitPoints {
		if _, exists := g.nodes[exitPoint]; !exists {
			return fmt.Errorf("exit point %s does not exist", exitPoint)
		}
	}

	return nil
}

// Execute runs the graph from the entry point.
//
// Returns *ExecutionError[S] on failure. Cycle detection events are emitted
// when a node is revisited and the iteration limit bounds every run.
func (g *stateGraph[S]) Execute(ctx context.Context, initial S) (S, error) {
	return g.execute(ctx, g.entryPoint, initial)
}

// ExecuteFrom runs the graph starting at node. Used to retry a failed step
// with the ExecutionError's state.
func (g *stateGraph[S]) ExecuteFrom(ctx context.Context, node string, initial S) (S, error) {
	if _, exists := g.nodes[node]; !exists {
		return initial, fmt.Errorf("start node %s does not exist", node)
	}
	return g.execute(ctx, node, initial)
}

// Resume continues a run from its saved checkpoint.
//
// Returns ErrCheckpointDisabled without a store, ErrCheckpointNotFound for
// unknown runs and ErrRunComplete (with the checkpointed state) when the
// checkpoint was taken at an exit point.
func (g *stateGraph[S]) Resume(ctx context.Context, runID string) (S, error) {
	var zero S
	if g.checkpointStore == nil {
		return zero, ErrCheckpointDisabled
	}

	cp, err := g.checkpointStore.Load(ctx, runID)
	if err != nil {
		return zero, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	g.observer.OnEvent(ctx, observability.Event{
		Type:      EventCheckpointLoad,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    g.name,
		Data: map[string]any{
			"node":   cp.Node,
			"run_id": runID,
		},
	})

	if g.exitPoints[cp.Node] {
		return cp.State, ErrRunComplete
	}

	nextNode, err := g.findNextNode(cp.Node, cp.State)
	if err != nil {
		return cp.State, fmt.Errorf("failed to find next node after checkpoint: %w", err)
	}

	g.observer.OnEvent(ctx, observability.Event{
		Type:      EventCheckpointResume,
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    g.name,
		Data: map[string]any{
			"checkpoint_node": cp.Node,
			"resume_node":     nextNode,
			"run_id":          runID,
		},
	})

	return g.execute(ctx, nextNode, cp.State)
}

func (g *stateGraph[S]) fail(current string, state S, path []string, err error) (S, error) {
	return state, &ExecutionError[S]{
		NodeName: current,
		State:    state,
		Path:     path,
		Err:      err,
	}
}

func (g *stateGraph[S]) execute(ctx context.Context, startNode string, initial S) (S, error) {
	if err := g.Validate(); err != nil {
		return initial, fmt.Errorf("graph validation failed: %w", err)
	}

	runID := initial.RunID()

	g.observer.OnEvent(ctx, observability.Event{
		Type:      EventGraphStart,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    g.name,
		Data: map[string]any{
			"start_node":  startNode,
			"run_id":      runID,
			"exit_points": len(g.exitPoints),
		},
	})

	current := startNode
	state := initial
	iterations := 0
	visited := make(map[string]int)
	path := make([]string, 0, len(g.nodes))

	for {
		if err := ctx.Err(); err != nil {
			return g.fail(current, state, path, fmt.Errorf("execution cancelled: %w", err))
		}

		iterations++
		if iterations > g.maxIterations {
			return g.fail(current, state, path, fmt.Errorf("max iterations (%d) exceeded", g.maxIterations))
		}

		visited[current]++
		path = append(path, current)

		if visited[current] > 1 {
			g.observer.OnEvent(ctx, observability.Event{
				Type:      EventCycleDetected,
				Level:     observability.LevelWarning,
				Timestamp: time.Now(),
				Source:    g.name,
				Data: map[string]any{
					"node":        current,
					"visit_count": visited[current],
					"iteration":   iterations,
					"run_id":      runID,
				},
			})
		}

		node, exists := g.nodes[current]
		if !exists {
			return g.fail(current, state, path, fmt.Errorf("node %s not found", current))
		}

		g.observer.OnEvent(ctx, observability.Event{
			Type:      EventNodeStart,
			Level:     observability.LevelVerbose,
			Timestamp: time.Now(),
			Source:    g.name,
			Data: map[string]any{
				"node":      current,
				"iteration": iterations,
				"run_id":    runID,
			},
		})

		start := time.Now()
		newState, err := node.Execute(ctx, state)

		g.observer.OnEvent(ctx, observability.Event{
			Type:      EventNodeComplete,
			Level:     observability.LevelVerbose,
			Timestamp: time.Now(),
			Source:    g.name,
			Data: map[string]any{
				"node":        current,
				"iteration":   iterations,
				"error":       err != nil,
				"duration_ms": time.Since(start).Milliseconds(),
			},
		})

		if err != nil {
			return g.fail(current, state, path, fmt.Errorf("node execution failed: %w", err))
		}

		state = newState

		if g.checkpointInterval > 0 && iterations%g.checkpointInterval == 0 {
			cp := Checkpoint[S]{RunID: runID, Node: current, State: state, SavedAt: time.Now().UTC()}
			if err := g.checkpointStore.Save(ctx, cp); err != nil {
				return g.fail(current, state, path, fmt.Errorf("checkpoint save failed: %w", err))
			}

			g.observer.OnEvent(ctx, observability.Event{
				Type:      EventCheckpointSave,
				Level:     observability.LevelVerbose,
				Timestamp: time.Now(),
				Source:    g.name,
				Data: map[string]any{
					"node":   current,
					"run_id": runID,
				},
			})
		}

		if g.exitPoints[current] {
			g.observer.OnEvent(ctx, observability.Event{
				Type:      EventGraphComplete,
				Level:     observability.LevelVerbose,
				Timestamp: time.Now(),
				Source:    g.name,
				Data: map[string]any{
					"exit_point": current,
					"iterations": iterations,
					"path":       append([]string(nil), path...),
				},
			})

			if !g.preserveCheckpoints && g.checkpointInterval > 0 {
				g.checkpointStore.Delete(ctx, runID)
			}

			return state, nil
		}

		nextNode, err := g.transition(ctx, current, state)
		if err != nil {
			return g.fail(current, state, path, err)
		}

		current = nextNode
	}
}

func (g *stateGraph[S]) transition(ctx context.Context, current string, state S) (string, error) {
	edges, hasEdges := g.edges[current]
	if !hasEdges {
		return "", fmt.Errorf("node %s has no outgoing edges and is not an exit point", current)
	}

	for i, edge := range edges {
		g.observer.OnEvent(ctx, observability.Event{
			Type:      EventEdgeEvaluate,
			Level:     observability.LevelVerbose,
			Timestamp: time.Now(),
			Source:    g.name,
			Data: map[string]any{
				"from":          edge.From,
				"to":            edge.To,
				"edge_index":    i,
				"has_predicate": edge.Predicate != nil,
			},
		})

		if edge.Predicate == nil || edge.Predicate(state) {
			g.observer.OnEvent(ctx, observability.Event{
				Type:      EventEdgeTransition,
				Level:     observability.LevelVerbose,
				Timestamp: time.Now(),
				Source:    g.name,
				Data: map[string]any{
					"from":           edge.From,
					"to":             edge.To,
					"edge_index":     i,
					"predicate_name": edge.Name,
				},
			})
			return edge.To, nil
		}
	}

	return "", fmt.Errorf("no valid transition from node %s", current)
}

// findNextNode picks the transition out of a checkpointed node.
func (g *stateGraph[S]) findNextNode(fromNode string, state S) (string, error) {
	edges, hasEdges := g.edges[fromNode]
	if !hasEdges {
		return "", fmt.Errorf("no outgoing edges from checkpoint node: %s", fromNode)
	}

	for i := range edges {
		edge := &edges[i]
		if edge.Predicate == nil || edge.Predicate(state) {
			return edge.To, nil
		}
	}

	return "", fmt.Errorf("no valid edge transition from checkpoint node: %s", fromNode)
}

// AsExecutionError extracts the ExecutionError for state type S from err.
func AsExecutionError[S any](err error) (*ExecutionError[S], bool) {
	var execErr *ExecutionError[S]
	if errors.As(err, &execErr) {
		return execErr, true
	}
	return nil, false
}
