package schema

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// Grade is the assessed seniority level.
type Grade string

const (
	Junior Grade = "Junior"
	Middle Grade = "Middle"
	Senior Grade = "Senior"
)

// Grades lists every valid Grade in ascending order.
var Grades = []Grade{Junior, Middle, Senior}

func (g Grade) IsValid() bool { return slices.Contains(Grades, g) }

// ParseGrade matches s case-insensitively against the known grades.
func ParseGrade(s string) (Grade, error) {
	for _, g := range Grades {
		if strings.EqualFold(strings.TrimSpace(s), string(g)) {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown grade %q", s)
}

// Recommendation is the hiring verdict.
type Recommendation string

const (
	NoHire     Recommendation = "No Hire"
	Hire       Recommendation = "Hire"
	StrongHire Recommendation = "Strong Hire"
)

var Recommendations = []Recommendation{NoHire, Hire, StrongHire}

func (r Recommendation) IsValid() bool { return slices.Contains(Recommendations, r) }

// RoadmapItem is one remediation recommendation. ResourceLink is never
// produced by generation; it is attached afterwards by enrichment.
type RoadmapItem struct {
	Topic        string `json:"topic"`
	Goal         string `json:"goal"`
	Plan         string `json:"plan"`
	ResourceLink string `json:"resource_link,omitempty"`
}

// ReportV1 is the final assessment contract.
var ReportV1 = Schema{
	Name:        "report",
	Version:     1,
	Description: "Final structured assessment of the interview.",
	Definition: object(map[string]jsonschema.Definition{
		"grade":                  enum("Assessed candidate level.", gradeValues()...),
		"hiring_recommendation":  enum("Hiring verdict.", recommendationValues()...),
		"confidence_score":       number("Overall confidence in the assessment, 0 to 100."),
		"confirmed_skills":       stringList("Topics the candidate answered correctly."),
		"knowledge_gaps":         stringList("Topics the candidate got wrong or did not know."),
		"gap_solutions":          stringList("Correct answers or explanations for each knowledge gap."),
		"soft_skills_clarity":    str("Assessment of how clearly the candidate communicates."),
		"soft_skills_honesty":    str("Assessment of honesty, including admitting not knowing."),
		"soft_skills_engagement": str("Assessment of engagement during the interview."),
		"personal_roadmap": {
			Type:        jsonschema.Array,
			Description: "Ordered learning roadmap.",
			Items: func() *jsonschema.Definition {
				d := object(map[string]jsonschema.Definition{
					"topic": str("Topic or technology to study."),
					"goal":  str("What the candidate should be able to do afterwards."),
					"plan":  str("Concrete steps to get there."),
				})
				return &d
			}(),
		},
	}),
}

// ReportOutput is the decoded ReportV1 payload.
type ReportOutput struct {
	Grade                Grade          `json:"grade"`
	HiringRecommendation Recommendation `json:"hiring_recommendation"`
	ConfidenceScore      float64        `json:"confidence_score"`
	ConfirmedSkills      []string       `json:"confirmed_skills"`
	KnowledgeGaps        []string       `json:"knowledge_gaps"`
	GapSolutions         []string       `json:"gap_solutions"`
	SoftSkillsClarity    string         `json:"soft_skills_clarity"`
	SoftSkillsHonesty    string         `json:"soft_skills_honesty"`
	SoftSkillsEngagement string         `json:"soft_skills_engagement"`
	PersonalRoadmap      []RoadmapItem  `json:"personal_roadmap"`
}

func (o *ReportOutput) Validate() error {
	if !o.Grade.IsValid() {
		return fmt.Errorf("grade %q not in %v", o.Grade, Grades)
	}
	if !o.HiringRecommendation.IsValid() {
		return fmt.Errorf("hiring_recommendation %q not in %v", o.HiringRecommendation, Recommendations)
	}
	for i, item := range o.PersonalRoadmap {
		if strings.TrimSpace(item.Topic) == "" {
			return fmt.Errorf("personal_roadmap[%d]: topic is empty", i)
		}
	}
	return validConfidence(o.ConfidenceScore)
}

func gradeValues() []string {
	out := make([]string, len(Grades))
	for i, g := range Grades {
		out[i] = string(g)
	}
	return out
}

func recommendationValues() []string {
	out := make([]string, len(Recommendations))
	for i, r := range Recommendations {
		out[i] = string(r)
	}
	return out
}
