package roles

import (
	"context"

	"github.com/tailored-agentic-units/coach/agent"
	"github.com/tailored-agentic-units/coach/core/protocol"
	"github.com/tailored-agentic-units/coach/core/schema"
	"github.com/tailored-agentic-units/coach/session"
)

// Interviewer produces the message shown to the candidate.
//
// When escalation is enabled and the model asks for the Mentor, the reply
// is held back and EscalateToMentor is set instead; once the turn's recall
// budget is spent the flag is ignored and the reply is always delivered.
type Interviewer struct {
	client *agent.Client
	cfg    Config
}

func NewInterviewer(client *agent.Client, cfg Config) *Interviewer {
	merged := DefaultConfig()
	merged.Merge(&cfg)
	return &Interviewer{client: client, cfg: merged}
}

func (i *Interviewer) Execute(ctx context.Context, in session.Session) (session.Session, error) {
	conversation := in.Messages.Items()
	if directive := in.Control.MentorDirective; directive != "" {
		conversation = append(conversation, protocol.NewMessage(protocol.RoleSystem, directiveContext(directive)))
	}

	var out schema.InterviewerOutput
	err := i.client.Generate(ctx, agent.Request{
		System:       interviewerPrompt(in.Participant, i.cfg.Language),
		Conversation: conversation,
		Schema:       schema.InterviewerV1,
	}, &out)
	if err != nil {
		return in, err
	}

	s := in.Clone()
	s.Control.InterviewerRationale = out.ThoughtProcess
	s.Control.EscalateToMentor = out.CallMentor && i.canEscalate(s)
	if s.Control.EscalateToMentor {
		return s, nil
	}

	s.Messages.Append(protocol.NewMessage(protocol.RoleAssistant, out.ResponseText))
	s.Control.LastInterviewerQuestion = out.ResponseText
	return s, nil
}

func (i *Interviewer) canEscalate(s session.Session) bool {
	return i.cfg.Escalation && s.Control.MentorRecalls < i.cfg.MaxRecalls
}
