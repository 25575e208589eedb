package session_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/tailored-agentic-units/coach/core/protocol"
	"github.com/tailored-agentic-units/coach/core/schema"
	"github.com/tailored-agentic-units/coach/session"
)

func participant() session.Participant {
	return session.Participant{
		Name:       "Alex",
		Position:   "Backend Developer",
		Grade:      schema.Junior,
		Experience: "pet projects in Go",
	}
}

func newSession(t *testing.T, window int) session.Session {
	t.Helper()
	s, err := session.New(participant(), &session.Config{WindowSize: window})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestNew(t *testing.T) {
	s := newSession(t, 10)

	if s.ID == "" {
		t.Error("session ID is empty")
	}
	if s.RunID() != s.ID {
		t.Errorf("got RunID %q, want %q", s.RunID(), s.ID)
	}
	if s.Status != session.StatusActive {
		t.Errorf("got status %q, want active", s.Status)
	}
	if s.Summary != session.InitialSummary {
		t.Errorf("got summary %q, want %q", s.Summary, session.InitialSummary)
	}
	if s.Control.MentorDirective != session.InitialDirective {
		t.Errorf("got directive %q, want %q", s.Control.MentorDirective, session.InitialDirective)
	}
	if s.Control.MentorConfidence != 100 {
		t.Errorf("got confidence %v, want 100", s.Control.MentorConfidence)
	}
	if s.Messages.Limit() != 10 {
		t.Errorf("got window limit %d, want 10", s.Messages.Limit())
	}
	if err := s.Check(); err != nil {
		t.Errorf("Check failed on new session: %v", err)
	}
}

func TestNew_IDUnique(t *testing.T) {
	a := newSession(t, 0)
	b := newSession(t, 0)
	if a.ID == b.ID {
		t.Errorf("two sessions share ID %q", a.ID)
	}
}

func TestNew_InvalidParticipant(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*session.Participant)
	}{
		{"empty name", func(p *session.Participant) { p.Name = " " }},
		{"empty position", func(p *session.Participant) { p.Position = "" }},
		{"unknown grade", func(p *session.Participant) { p.Grade = "Lead" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := participant()
			tt.mutate(&p)

			_, err := session.New(p, &session.Config{})
			if !errors.Is(err, session.ErrInvalidParticipant) {
				t.Errorf("got %v, want ErrInvalidParticipant", err)
			}
		})
	}
}

func TestNew_InvalidWindow(t *testing.T) {
	_, err := session.New(participant(), &session.Config{WindowSize: 2})
	if !errors.Is(err, session.ErrInvalidWindow) {
		t.Errorf("got %v, want ErrInvalidWindow", err)
	}
}

func TestSession_Begin(t *testing.T) {
	s := newSession(t, 0)
	s.Control.EscalateToMentor = true
	s.Control.MentorRecalls = 1
	s.Control.InterviewerRationale = "previous turn"

	if err := s.Begin("Hello, I am ready."); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	if s.Control.EscalateToMentor || s.Control.MentorRecalls != 0 {
		t.Error("Begin should reset escalation fields")
	}
	if s.Control.InterviewerRationale != "" {
		t.Errorf("got interviewer rationale %q, want cleared", s.Control.InterviewerRationale)
	}
	last, ok := s.Messages.At(-1)
	if !ok || last.Role != protocol.RoleUser || last.Content != "Hello, I am ready." {
		t.Errorf("got last message %+v, want user input", last)
	}

	if err := s.Begin("   "); !errors.Is(err, session.ErrEmptyInput) {
		t.Errorf("got %v, want ErrEmptyInput", err)
	}
}

func TestSession_AppendTurn_AssignsSequentialIDs(t *testing.T) {
	s := newSession(t, 0)

	for i := 0; i < 5; i++ {
		got := s.AppendTurn(session.TurnLog{TurnID: 99, Question: "q", CandidateAnswer: "a"})
		if got.TurnID != i+1 {
			t.Errorf("turn %d: got id %d, want %d", i, got.TurnID, i+1)
		}
	}

	if s.Control.CurrentTurnID != 5 {
		t.Errorf("got CurrentTurnID %d, want 5", s.Control.CurrentTurnID)
	}
	if err := s.Check(); err != nil {
		t.Errorf("Check failed: %v", err)
	}

	last, ok := s.LastTurn()
	if !ok || last.TurnID != 5 {
		t.Errorf("got last turn %+v, want id 5", last)
	}
}

func TestSession_StatusMonotone(t *testing.T) {
	s := newSession(t, 0)

	if err := s.Advance(session.StatusStopRequested); err != nil {
		t.Fatalf("Advance to stop_requested failed: %v", err)
	}
	if err := s.Advance(session.StatusActive); !errors.Is(err, session.ErrStatusRegression) {
		t.Errorf("got %v, want ErrStatusRegression", err)
	}
	if err := s.Advance(session.StatusFinished); !errors.Is(err, session.ErrReportRequired) {
		t.Errorf("got %v, want ErrReportRequired", err)
	}

	report := schema.ReportOutput{Grade: schema.Junior, HiringRecommendation: schema.NoHire}
	if err := s.Finish(report); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if s.Status != session.StatusFinished || s.FinalReport == nil {
		t.Errorf("got status %q report %v, want finished with report", s.Status, s.FinalReport)
	}
	if err := s.Advance(session.StatusStopRequested); !errors.Is(err, session.ErrStatusRegression) {
		t.Errorf("got %v, want ErrStatusRegression", err)
	}
	if err := s.Finish(report); !errors.Is(err, session.ErrFinished) {
		t.Errorf("got %v, want ErrFinished", err)
	}
	if err := s.Begin("more"); !errors.Is(err, session.ErrFinished) {
		t.Errorf("got %v, want ErrFinished", err)
	}
	if err := s.Check(); err != nil {
		t.Errorf("Check failed: %v", err)
	}
}

func TestSession_Check_DetectsViolations(t *testing.T) {
	s := newSession(t, 0)
	s.Turns = []session.TurnLog{{TurnID: 2}}
	if err := s.Check(); err == nil {
		t.Error("expected error for turn id gap")
	}

	s = newSession(t, 0)
	s.Status = session.StatusFinished
	if err := s.Check(); err == nil {
		t.Error("expected error for finished without report")
	}
}

func TestSession_Clone_Independent(t *testing.T) {
	s := newSession(t, 0)
	s.Begin("first")
	s.AppendTurn(session.TurnLog{Question: "q1"})
	s.Finish(schema.ReportOutput{
		Grade:           schema.Middle,
		KnowledgeGaps:   []string{"generics"},
		PersonalRoadmap: []schema.RoadmapItem{{Topic: "Generics"}},
	})

	c := s.Clone()
	c.Messages.Append(protocol.NewMessage(protocol.RoleAssistant, "extra"))
	c.Turns[0].Question = "changed"
	c.FinalReport.KnowledgeGaps[0] = "changed"
	c.FinalReport.PersonalRoadmap[0].ResourceLink = "https://example.com"

	if s.Messages.Len() != 1 {
		t.Errorf("original messages changed: %d", s.Messages.Len())
	}
	if s.Turns[0].Question != "q1" {
		t.Errorf("original turn changed: %q", s.Turns[0].Question)
	}
	if s.FinalReport.KnowledgeGaps[0] != "generics" {
		t.Errorf("original report gaps changed: %v", s.FinalReport.KnowledgeGaps)
	}
	if s.FinalReport.PersonalRoadmap[0].ResourceLink != "" {
		t.Errorf("original roadmap changed: %+v", s.FinalReport.PersonalRoadmap[0])
	}
}

func TestSession_JSON(t *testing.T) {
	s := newSession(t, 4)
	s.Begin("hello")
	s.AppendTurn(session.TurnLog{Question: "q", CandidateAnswer: "a", MentorDirective: "d"})

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var got session.Session
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if got.ID != s.ID || got.Messages.Limit() != 4 || got.Messages.Len() != 1 {
		t.Errorf("got %+v, want copy of %+v", got, s)
	}
	if len(got.Turns) != 1 || got.Turns[0].MentorDirective != "d" {
		t.Errorf("got turns %+v", got.Turns)
	}
}
