package roles

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tailored-agentic-units/coach/agent"
	"github.com/tailored-agentic-units/coach/core/protocol"
	"github.com/tailored-agentic-units/coach/core/schema"
	"github.com/tailored-agentic-units/coach/session"
)

// Reporter produces the final assessment from the full turn log and the
// summary, enriches its roadmap and finishes the session.
type Reporter struct {
	client   *agent.Client
	enricher Enricher
	cfg      Config
}

// NewReporter creates a Reporter. A nil enricher leaves roadmap links empty.
func NewReporter(client *agent.Client, enricher Enricher, cfg Config) *Reporter {
	merged := DefaultConfig()
	merged.Merge(&cfg)
	return &Reporter{client: client, enricher: enricher, cfg: merged}
}

func (r *Reporter) Execute(ctx context.Context, in session.Session) (session.Session, error) {
	switch in.Status {
	case session.StatusActive:
		return in, &SequenceError{Node: "reporter", Reason: "interview is still active"}
	case session.StatusFinished:
		return in, session.ErrFinished
	}

	transcript, err := json.MarshalIndent(in.Turns, "", "  ")
	if err != nil {
		return in, fmt.Errorf("failed to encode transcript: %w", err)
	}

	var report schema.ReportOutput
	err = r.client.Generate(ctx, agent.Request{
		System:       reporterPrompt(in.Participant, r.cfg.Language),
		Conversation: protocol.InitMessages(protocol.RoleUser, reporterInput(in.Summary, string(transcript))),
		Schema:       schema.ReportV1,
	}, &report)
	if err != nil {
		return in, err
	}

	if r.enricher != nil {
		report = r.enricher.Enrich(ctx, report, in.Participant.Position)
	}

	s := in.Clone()
	if err := s.Finish(report); err != nil {
		return in, err
	}
	return s, nil
}
