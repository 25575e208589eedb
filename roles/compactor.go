package roles

import (
	"context"

	"github.com/tailored-agentic-units/coach/agent"
	"github.com/tailored-agentic-units/coach/core/protocol"
	"github.com/tailored-agentic-units/coach/core/schema"
	"github.com/tailored-agentic-units/coach/session"
)

// Compactor replaces the rolling summary with one that folds in the newest
// turn. Each turn is folded in exactly once; without a new turn it is a
// no-op.
type Compactor struct {
	client *agent.Client
	cfg    Config
}

func NewCompactor(client *agent.Client, cfg Config) *Compactor {
	merged := DefaultConfig()
	merged.Merge(&cfg)
	return &Compactor{client: client, cfg: merged}
}

func (c *Compactor) Execute(ctx context.Context, in session.Session) (session.Session, error) {
	turn, ok := in.LastTurn()
	if !ok || turn.TurnID <= in.Control.SummarizedTurnID {
		return in, nil
	}

	var out schema.SummaryOutput
	err := c.client.Generate(ctx, agent.Request{
		System:       compactorPrompt + " " + languageRule(c.cfg.Language),
		Conversation: protocol.InitMessages(protocol.RoleUser, compactorInput(in.Summary, turn)),
		Schema:       schema.SummaryV1,
	}, &out)
	if err != nil {
		return in, err
	}

	s := in.Clone()
	s.Summary = out.Summary
	s.Control.SummarizedTurnID = turn.TurnID
	return s, nil
}
