package schema

import (
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// MentorV1 is the evaluator contract.
var MentorV1 = Schema{
	Name:        "mentor",
	Version:     1,
	Description: "Evaluation of the candidate's latest answer and direction for the next question.",
	Definition: object(map[string]jsonschema.Definition{
		"internal_thoughts":   str("Hidden reasoning about the candidate's answer and the interview so far."),
		"directive":           str("Instruction for the interviewer: what to ask next or how to react."),
		"correction_needed":   boolean("Whether the candidate made a mistake that must be corrected."),
		"correction_details":  str("Correction details when correction_needed is true, otherwise an empty string."),
		"confidence_score":    number("Confidence in the evaluation, 0 to 100."),
		"stop_interview_flag": boolean("True if the interview should stop (enough data or the candidate asked to stop)."),
	}),
}

// MentorOutput is the decoded MentorV1 payload.
type MentorOutput struct {
	InternalThoughts  string  `json:"internal_thoughts"`
	Directive         string  `json:"directive"`
	CorrectionNeeded  bool    `json:"correction_needed"`
	CorrectionDetails string  `json:"correction_details"`
	ConfidenceScore   float64 `json:"confidence_score"`
	StopInterview     bool    `json:"stop_interview_flag"`
}

// Validate requires a directive unless the interview is stopping, since a
// stop has no next question to direct.
func (o *MentorOutput) Validate() error {
	if !o.StopInterview && strings.TrimSpace(o.Directive) == "" {
		return errors.New("directive is empty")
	}
	return validConfidence(o.ConfidenceScore)
}
