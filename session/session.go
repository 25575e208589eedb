// Package session defines the interview record threaded through every role
// node: participant data, the windowed message buffer, the append-only turn
// log, the rolling summary and the routing control fields.
//
// A Session is a value. Nodes receive a copy and return the updated copy, so
// a failed node leaves the caller's record untouched.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/coach/core/protocol"
	"github.com/tailored-agentic-units/coach/core/schema"
)

// Seed values for a freshly created session.
const (
	InitialDirective  = "Introduce yourself and ask the first relevant question."
	InitialRationale  = "Initial state."
	InitialSummary    = "Interview start."
	InitialConfidence = 100
)

var (
	ErrInvalidParticipant = errors.New("invalid participant")
	ErrStatusRegression   = errors.New("status cannot move backwards")
	ErrReportRequired     = errors.New("finished status requires a final report")
	ErrFinished           = errors.New("session is finished")
	ErrEmptyInput         = errors.New("candidate input is empty")
)

// Status is the session lifecycle stage. It only moves forward.
type Status string

const (
	StatusActive        Status = "active"
	StatusStopRequested Status = "stop_requested"
	StatusFinished      Status = "finished"
)

func (s Status) rank() int {
	switch s {
	case StatusActive:
		return 0
	case StatusStopRequested:
		return 1
	case StatusFinished:
		return 2
	default:
		return -1
	}
}

func (s Status) IsValid() bool { return s.rank() >= 0 }

// Participant describes the candidate. It does not change during a session.
type Participant struct {
	Name       string       `json:"name" yaml:"name"`
	Position   string       `json:"position" yaml:"position"`
	Grade      schema.Grade `json:"grade" yaml:"grade"`
	Experience string       `json:"experience" yaml:"experience"`
}

// Validate requires a name, a position and a known grade.
func (p Participant) Validate() error {
	var errs []error
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if strings.TrimSpace(p.Position) == "" {
		errs = append(errs, errors.New("position is required"))
	}
	if !p.Grade.IsValid() {
		errs = append(errs, fmt.Errorf("grade %q is not one of %v", p.Grade, schema.Grades))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidParticipant, errors.Join(errs...))
	}
	return nil
}

// TurnLog is one completed question/answer cycle. Entries are never modified
// after they are appended.
type TurnLog struct {
	TurnID           int    `json:"turn_id"`
	Question         string `json:"question"`
	CandidateAnswer  string `json:"candidate_answer"`
	InternalThoughts string `json:"internal_thoughts"`
	MentorDirective  string `json:"mentor_directive"`
}

// Control holds the per-turn routing and hand-off fields written by the
// role nodes.
type Control struct {
	LastCandidateAnswer     string  `json:"last_candidate_answer"`
	LastInterviewerQuestion string  `json:"last_interviewer_question"`
	MentorDirective         string  `json:"mentor_directive"`
	MentorRationale         string  `json:"mentor_rationale"`
	MentorConfidence        float64 `json:"mentor_confidence"`
	InterviewerRationale    string  `json:"interviewer_rationale"`
	EscalateToMentor        bool    `json:"escalate_to_mentor"`
	MentorRecalls           int     `json:"mentor_recalls"`
	CurrentTurnID           int     `json:"current_turn_id"`
	SummarizedTurnID        int     `json:"summarized_turn_id"`
}

// Session is the interview record.
type Session struct {
	ID          string               `json:"id"`
	Participant Participant          `json:"participant"`
	Messages    Window               `json:"messages"`
	Turns       []TurnLog            `json:"turns"`
	Summary     string               `json:"summary"`
	Status      Status               `json:"status"`
	Control     Control              `json:"control"`
	FinalReport *schema.ReportOutput `json:"final_report,omitempty"`
	StartedAt   time.Time            `json:"started_at"`
}

// New creates an active session for participant with a UUIDv7 identifier.
func New(participant Participant, cfg *Config) (Session, error) {
	if err := participant.Validate(); err != nil {
		return Session{}, err
	}

	window, err := NewWindow(cfg.WindowSize)
	if err != nil {
		return Session{}, err
	}

	return Session{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Participant: participant,
		Messages:    window,
		Summary:     InitialSummary,
		Status:      StatusActive,
		Control: Control{
			MentorDirective:  InitialDirective,
			MentorRationale:  InitialRationale,
			MentorConfidence: InitialConfidence,
		},
		StartedAt: time.Now().UTC(),
	}, nil
}

// RunID identifies the session to the state graph's checkpoint store.
func (s Session) RunID() string { return s.ID }

// Active reports whether the interview is still asking questions.
func (s Session) Active() bool { return s.Status == StatusActive }

// Begin opens a new external turn: it clears the per-turn interviewer and
// escalation fields and appends the candidate's message.
func (s *Session) Begin(input string) error {
	if s.Status == StatusFinished {
		return ErrFinished
	}
	if strings.TrimSpace(input) == "" {
		return ErrEmptyInput
	}

	s.Control.InterviewerRationale = ""
	s.Control.EscalateToMentor = false
	s.Control.MentorRecalls = 0
	s.Messages.Append(protocol.NewMessage(protocol.RoleUser, input))
	return nil
}

// AppendTurn assigns the next turn id to t and appends it.
func (s *Session) AppendTurn(t TurnLog) TurnLog {
	t.TurnID = len(s.Turns) + 1
	s.Turns = append(s.Turns, t)
	s.Control.CurrentTurnID = t.TurnID
	return t
}

// LastTurn returns the most recent turn log entry.
func (s Session) LastTurn() (TurnLog, bool) {
	if len(s.Turns) == 0 {
		return TurnLog{}, false
	}
	return s.Turns[len(s.Turns)-1], true
}

// Advance moves the status forward. Moving backwards is an error and
// reaching finished requires Finish.
func (s *Session) Advance(to Status) error {
	if !to.IsValid() {
		return fmt.Errorf("unknown status %q", to)
	}
	if to.rank() < s.Status.rank() {
		return fmt.Errorf("%w: %s -> %s", ErrStatusRegression, s.Status, to)
	}
	if to == StatusFinished && s.FinalReport == nil {
		return ErrReportRequired
	}
	s.Status = to
	return nil
}

// Finish stores the final report and marks the session finished.
func (s *Session) Finish(report schema.ReportOutput) error {
	if s.Status == StatusFinished {
		return ErrFinished
	}
	s.FinalReport = cloneReport(&report)
	s.Status = StatusFinished
	return nil
}

// Check verifies the record's structural invariants.
func (s Session) Check() error {
	for i, t := range s.Turns {
		if t.TurnID != i+1 {
			return fmt.Errorf("turn %d has id %d", i, t.TurnID)
		}
	}
	if (s.FinalReport != nil) != (s.Status == StatusFinished) {
		return fmt.Errorf("final report present=%t with status %s", s.FinalReport != nil, s.Status)
	}
	if limit := s.Messages.Limit(); limit > 0 && s.Messages.Len() > limit {
		return fmt.Errorf("message window holds %d entries, limit %d", s.Messages.Len(), limit)
	}
	return nil
}

// Clone returns a deep copy that shares no mutable state with s.
func (s Session) Clone() Session {
	c := s
	c.Messages = s.Messages.Clone()
	if s.Turns != nil {
		c.Turns = make([]TurnLog, len(s.Turns))
		copy(c.Turns, s.Turns)
	}
	c.FinalReport = cloneReport(s.FinalReport)
	return c
}

func cloneReport(r *schema.ReportOutput) *schema.ReportOutput {
	if r == nil {
		return nil
	}
	c := *r
	c.ConfirmedSkills = cloneStrings(r.ConfirmedSkills)
	c.KnowledgeGaps = cloneStrings(r.KnowledgeGaps)
	c.GapSolutions = cloneStrings(r.GapSolutions)
	if r.PersonalRoadmap != nil {
		c.PersonalRoadmap = make([]schema.RoadmapItem, len(r.PersonalRoadmap))
		copy(c.PersonalRoadmap, r.PersonalRoadmap)
	}
	return &c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
