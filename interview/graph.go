package interview

import (
	"context"
	"fmt"

	"github.com/tailored-agentic-units/coach/observability"
	"github.com/tailored-agentic-units/coach/orchestrate/config"
	"github.com/tailored-agentic-units/coach/orchestrate/state"
	"github.com/tailored-agentic-units/coach/session"
)

// Graph node names. AwaitingInput and Done are exit points; every external
// input starts a run at Evaluating.
const (
	NodeEvaluating    = "evaluating"
	NodeQuestioning   = "questioning"
	NodeLogging       = "logging"
	NodeCompacting    = "compacting"
	NodeReporting     = "reporting"
	NodeAwaitingInput = "awaiting_input"
	NodeDone          = "done"
)

// a turn visits at most seven nodes per Mentor recall
const defaultMaxIterations = 64

// Nodes holds the role implementations wired into the interview graph.
type Nodes struct {
	Mentor      state.StateNode[session.Session]
	Interviewer state.StateNode[session.Session]
	Logger      state.StateNode[session.Session]
	Compactor   state.StateNode[session.Session]
	Reporter    state.StateNode[session.Session]
}

var (
	active    state.TransitionPredicate[session.Session] = session.Session.Active
	escalated state.TransitionPredicate[session.Session] = func(s session.Session) bool {
		return s.Control.EscalateToMentor
	}
)

// NewGraph wires nodes into the interview state machine:
//
//	evaluating  -> logging        when the interview is no longer active
//	evaluating  -> questioning    otherwise
//	questioning -> evaluating     when the interviewer escalated
//	questioning -> logging        otherwise
//	logging     -> compacting
//	compacting  -> reporting      when the interview is no longer active
//	compacting  -> awaiting_input otherwise
//	reporting   -> done
func NewGraph(
	cfg config.GraphConfig,
	nodes Nodes,
	observer observability.Observer,
	checkpoints state.CheckpointStore[session.Session],
) (state.StateGraph[session.Session], error) {
	g, err := state.NewGraphWithDeps(cfg, observer, checkpoints)
	if err != nil {
		return nil, err
	}

	idle := state.NewFunctionNode(func(_ context.Context, s session.Session) (session.Session, error) {
		return s, nil
	})

	for name, node := range map[string]state.StateNode[session.Session]{
		NodeEvaluating:    nodes.Mentor,
		NodeQuestioning:   nodes.Interviewer,
		NodeLogging:       nodes.Logger,
		NodeCompacting:    nodes.Compactor,
		NodeReporting:     nodes.Reporter,
		NodeAwaitingInput: idle,
		NodeDone:          idle,
	} {
		if node == nil {
			return nil, fmt.Errorf("node %s is not configured", name)
		}
		if err := g.AddNode(name, node); err != nil {
			return nil, err
		}
	}

	edges := []struct {
		from, to, name string
		pred           state.TransitionPredicate[session.Session]
	}{
		{NodeEvaluating, NodeLogging, "stopping", state.Not(active)},
		{NodeEvaluating, NodeQuestioning, "active", active},
		{NodeQuestioning, NodeEvaluating, "escalated", escalated},
		{NodeQuestioning, NodeLogging, "answered", state.Not(escalated)},
		{NodeLogging, NodeCompacting, "", nil},
		{NodeCompacting, NodeReporting, "stopping", state.Not(active)},
		{NodeCompacting, NodeAwaitingInput, "active", active},
		{NodeReporting, NodeDone, "", nil},
	}
	for _, e := range edges {
		if err := g.AddNamedEdge(e.from, e.to, e.name, e.pred); err != nil {
			return nil, err
		}
	}

	if err := g.SetEntryPoint(NodeEvaluating); err != nil {
		return nil, err
	}
	for _, exit := range []string{NodeAwaitingInput, NodeDone} {
		if err := g.SetExitPoint(exit); err != nil {
			return nil, err
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
