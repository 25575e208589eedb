package agent

import (
	"errors"
	"fmt"
)

var (
	ErrAgentNotFound  = errors.New("agent not found")
	ErrAgentExists    = errors.New("agent already exists")
	ErrEmptyAgentName = errors.New("agent name is empty")

	// ErrGeneration matches every GenerationError via errors.Is.
	ErrGeneration = errors.New("generation failed")
)

// Reason classifies a generation failure.
type Reason string

const (
	ReasonTransport  Reason = "transport"
	ReasonTimeout    Reason = "timeout"
	ReasonSchema     Reason = "schema"
	ReasonEmptyInput Reason = "empty_input"
)

// GenerationError is the single failure kind of a structured generation call.
type GenerationError struct {
	Agent  string
	Schema string
	Reason Reason
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("generation %s failed (%s)", e.Schema, e.Reason)
	}
	return fmt.Sprintf("generation %s failed (%s): %v", e.Schema, e.Reason, e.Err)
}

func (e *GenerationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrGeneration}
	}
	return []error{ErrGeneration, e.Err}
}
