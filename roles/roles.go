// Package roles implements the five interview role nodes. Each node is a
// state.StateNode over session.Session: it receives a copy of the record,
// makes at most one structured generation call and returns the updated copy.
//
//	Mentor       evaluates the latest answer and sets the directive
//	Interviewer  produces the next message for the candidate
//	Logger       appends one TurnLog per completed question/answer pair
//	Compactor    folds the newest turn into the rolling summary
//	Reporter     produces and enriches the final assessment
//
// A generation failure is returned unchanged to the caller; no node falls
// back to a default directive or question.
package roles

import (
	"context"
	"errors"
	"fmt"

	"github.com/tailored-agentic-units/coach/core/schema"
)

const (
	DefaultLanguage   = "Russian"
	DefaultMaxRecalls = 1
)

// ErrSequence matches every SequenceError.
var ErrSequence = errors.New("sequence precondition not met")

// SequenceError reports that a node's structural precondition did not hold.
// Logger and Compactor recover from it by returning the session unchanged.
type SequenceError struct {
	Node   string
	Reason string
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Node, e.Reason)
}

func (e *SequenceError) Is(target error) bool {
	return target == ErrSequence
}

// Config holds the settings shared by the role nodes.
type Config struct {
	// Language is the language of every text meant for the candidate.
	Language string `json:"language,omitempty" mapstructure:"language" yaml:"language,omitempty"`

	// Escalation lets the Interviewer ask for one extra Mentor pass per turn.
	Escalation bool `json:"escalation" mapstructure:"escalation" yaml:"escalation"`

	// MaxRecalls bounds Mentor re-entries per turn when Escalation is on.
	MaxRecalls int `json:"max_recalls,omitempty" mapstructure:"max_recalls" yaml:"max_recalls,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Language:   DefaultLanguage,
		MaxRecalls: DefaultMaxRecalls,
	}
}

func (c *Config) Merge(source *Config) {
	if source.Language != "" {
		c.Language = source.Language
	}
	if source.Escalation {
		c.Escalation = source.Escalation
	}
	if source.MaxRecalls > 0 {
		c.MaxRecalls = source.MaxRecalls
	}
}

// Enricher attaches resource links to a report's roadmap.
type Enricher interface {
	Enrich(ctx context.Context, report schema.ReportOutput, position string) schema.ReportOutput
}
