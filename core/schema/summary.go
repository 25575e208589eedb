package schema

import (
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// SummaryV1 is the free-text compaction contract.
var SummaryV1 = Schema{
	Name:        "summary",
	Version:     1,
	Description: "Rolling summary of the interview that folds in the latest turn.",
	Definition: object(map[string]jsonschema.Definition{
		"summary": str("Updated summary: covered topics, strengths, weaknesses and notable facts."),
	}),
}

// SummaryOutput is the decoded SummaryV1 payload.
type SummaryOutput struct {
	Summary string `json:"summary"`
}

func (o *SummaryOutput) Validate() error {
	if strings.TrimSpace(o.Summary) == "" {
		return errors.New("summary is empty")
	}
	return nil
}
