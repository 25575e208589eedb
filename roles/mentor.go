package roles

import (
	"context"
	"strings"

	"github.com/tailored-agentic-units/coach/agent"
	"github.com/tailored-agentic-units/coach/core/protocol"
	"github.com/tailored-agentic-units/coach/core/schema"
	"github.com/tailored-agentic-units/coach/session"
)

// Mentor evaluates the candidate's latest message and writes the directive
// the Interviewer follows next.
type Mentor struct {
	client *agent.Client
	cfg    Config
}

func NewMentor(client *agent.Client, cfg Config) *Mentor {
	merged := DefaultConfig()
	merged.Merge(&cfg)
	return &Mentor{client: client, cfg: merged}
}

func (m *Mentor) Execute(ctx context.Context, in session.Session) (session.Session, error) {
	idx := in.Messages.LastIndex(protocol.RoleUser)
	if idx < 0 {
		return in, &SequenceError{Node: "mentor", Reason: "no candidate message to evaluate"}
	}
	answer, _ := in.Messages.At(idx)

	var escalation string
	if in.Control.EscalateToMentor {
		escalation = in.Control.InterviewerRationale
	}

	var out schema.MentorOutput
	err := m.client.Generate(ctx, agent.Request{
		System:       mentorPrompt(in, m.cfg.Language, escalation),
		Conversation: in.Messages.Items(),
		Schema:       schema.MentorV1,
	}, &out)
	if err != nil {
		return in, err
	}

	s := in.Clone()
	if s.Control.EscalateToMentor {
		s.Control.EscalateToMentor = false
		s.Control.MentorRecalls++
	}

	s.Control.LastCandidateAnswer = answer.Content
	s.Control.MentorDirective = Directive(out)
	s.Control.MentorRationale = out.InternalThoughts
	s.Control.MentorConfidence = out.ConfidenceScore

	if out.StopInterview && s.Status == session.StatusActive {
		if err := s.Advance(session.StatusStopRequested); err != nil {
			return in, err
		}
	}

	return s, nil
}

// Directive renders the Mentor's directive with the correction annotation
// appended when a correction is needed.
func Directive(out schema.MentorOutput) string {
	directive := out.Directive
	if details := strings.TrimSpace(out.CorrectionDetails); out.CorrectionNeeded && details != "" {
		directive += " [CORRECTION INFO FOR INTERVIEWER: " + details + "]"
	}
	return directive
}
