package schema

import (
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// InterviewerV1 is the questioner contract.
var InterviewerV1 = Schema{
	Name:        "interviewer",
	Version:     1,
	Description: "The next message shown to the candidate.",
	Definition: object(map[string]jsonschema.Definition{
		"thought_process": str("Internal reasoning: understand the answer, check the directive, plan the reply."),
		"response_text":   str("The literal reply or question shown to the candidate."),
		"call_mentor":     boolean("True to request an extra evaluator pass before the reply is sent."),
	}),
}

// InterviewerOutput is the decoded InterviewerV1 payload.
type InterviewerOutput struct {
	ThoughtProcess string `json:"thought_process"`
	ResponseText   string `json:"response_text"`
	CallMentor     bool   `json:"call_mentor"`
}

func (o *InterviewerOutput) Validate() error {
	if strings.TrimSpace(o.ResponseText) == "" {
		return errors.New("response_text is empty")
	}
	return nil
}
