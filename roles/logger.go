package roles

import (
	"context"
	"errors"
	"fmt"

	"github.com/tailored-agentic-units/coach/core/protocol"
	"github.com/tailored-agentic-units/coach/session"
)

// Logger appends one TurnLog for the most recent question/answer pair. It
// makes no generation call.
type Logger struct{}

func NewLogger() *Logger { return &Logger{} }

func (l *Logger) Execute(_ context.Context, in session.Session) (session.Session, error) {
	turn, err := NextTurn(in)
	if errors.Is(err, ErrSequence) {
		return in, nil
	}
	if err != nil {
		return in, err
	}

	s := in.Clone()
	s.AppendTurn(turn)
	return s, nil
}

// NextTurn builds the TurnLog for the candidate's latest message and the
// interviewer message right before it. TurnID is assigned on append.
// Returns a SequenceError when no such pair exists yet.
func NextTurn(s session.Session) (session.TurnLog, error) {
	u := s.Messages.LastIndex(protocol.RoleUser)
	if u < 1 {
		return session.TurnLog{}, &SequenceError{Node: "logger", Reason: "no question/answer pair yet"}
	}

	question, _ := s.Messages.At(u - 1)
	if question.Role != protocol.RoleAssistant {
		return session.TurnLog{}, &SequenceError{Node: "logger", Reason: "candidate message is not preceded by a question"}
	}
	answer, _ := s.Messages.At(u)

	return session.TurnLog{
		Question:         question.Content,
		CandidateAnswer:  answer.Content,
		InternalThoughts: InternalThoughts(s.Control.MentorRationale, s.Control.InterviewerRationale),
		MentorDirective:  s.Control.MentorDirective,
	}, nil
}

// InternalThoughts joins both rationales into one role-tagged string.
func InternalThoughts(mentor, interviewer string) string {
	return fmt.Sprintf("[Observer]: %s\n[Interviewer]: %s\n", mentor, interviewer)
}
