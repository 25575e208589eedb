package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/coach/core/schema"
)

func TestSchema_ID(t *testing.T) {
	tests := []struct {
		schema schema.Schema
		want   string
	}{
		{schema.MentorV1, "mentor.v1"},
		{schema.InterviewerV1, "interviewer.v1"},
		{schema.SummaryV1, "summary.v1"},
		{schema.ReportV1, "report.v1"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.schema.ID())
		})
	}
}

func TestSchema_DefinitionIsStrict(t *testing.T) {
	for _, s := range []schema.Schema{schema.MentorV1, schema.InterviewerV1, schema.SummaryV1, schema.ReportV1} {
		t.Run(s.ID(), func(t *testing.T) {
			assert.Len(t, s.Definition.Required, len(s.Definition.Properties))
			assert.Equal(t, false, s.Definition.AdditionalProperties)

			raw, err := json.Marshal(&s.Definition)
			require.NoError(t, err)
			assert.Contains(t, string(raw), `"required"`)
		})
	}
}

func TestMentorV1_Verify(t *testing.T) {
	valid := `{"internal_thoughts":"solid answer","directive":"Ask about channels","correction_needed":false,"correction_details":"","confidence_score":85,"stop_interview_flag":false}`

	var out schema.MentorOutput
	require.NoError(t, schema.MentorV1.Verify(valid, &out))
	assert.Equal(t, "Ask about channels", out.Directive)
	assert.Equal(t, 85.0, out.ConfidenceScore)

	stopping := `{"internal_thoughts":"enough data","directive":"","correction_needed":false,"correction_details":"","confidence_score":90,"stop_interview_flag":true}`
	require.NoError(t, schema.MentorV1.Verify(stopping, &out), "a stop needs no directive")
	assert.True(t, out.StopInterview)

	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"not json", "directive: ask more"},
		{"confidence above range", `{"internal_thoughts":"x","directive":"d","correction_needed":false,"correction_details":"","confidence_score":101,"stop_interview_flag":false}`},
		{"confidence below range", `{"internal_thoughts":"x","directive":"d","correction_needed":false,"correction_details":"","confidence_score":-1,"stop_interview_flag":false}`},
		{"empty directive", `{"internal_thoughts":"x","directive":" ","correction_needed":false,"correction_details":"","confidence_score":50,"stop_interview_flag":false}`},
		{"missing field", `{"internal_thoughts":"x","directive":"d","confidence_score":50,"stop_interview_flag":false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out schema.MentorOutput
			err := schema.MentorV1.Verify(tt.content, &out)
			assert.ErrorIs(t, err, schema.ErrInvalidOutput)
		})
	}
}

func TestVerify_CodeFence(t *testing.T) {
	content := "```json\n{\"summary\":\"Candidate knows goroutines.\"}\n```"

	var out schema.SummaryOutput
	require.NoError(t, schema.SummaryV1.Verify(content, &out))
	assert.Equal(t, "Candidate knows goroutines.", out.Summary)
}

func TestInterviewerV1_Verify(t *testing.T) {
	var out schema.InterviewerOutput
	err := schema.InterviewerV1.Verify(`{"thought_process":"t","response_text":"What is a slice?","call_mentor":true}`, &out)
	require.NoError(t, err)
	assert.True(t, out.CallMentor)

	err = schema.InterviewerV1.Verify(`{"thought_process":"t","response_text":"","call_mentor":false}`, &out)
	assert.ErrorIs(t, err, schema.ErrInvalidOutput)
}

func reportJSON(grade, rec string, confidence float64) string {
	r := map[string]any{
		"grade":                  grade,
		"hiring_recommendation":  rec,
		"confidence_score":       confidence,
		"confirmed_skills":       []string{"goroutines"},
		"knowledge_gaps":         []string{"generics"},
		"gap_solutions":          []string{"Type parameters are declared in square brackets."},
		"soft_skills_clarity":    "clear",
		"soft_skills_honesty":    "admits gaps",
		"soft_skills_engagement": "engaged",
		"personal_roadmap": []map[string]string{
			{"topic": "Generics", "goal": "write generic containers", "plan": "read the tutorial"},
		},
	}
	b, _ := json.Marshal(r)
	return string(b)
}

func TestReportV1_Verify(t *testing.T) {
	var out schema.ReportOutput
	require.NoError(t, schema.ReportV1.Verify(reportJSON("Middle", "Hire", 70), &out))
	assert.Equal(t, schema.Middle, out.Grade)
	assert.Equal(t, schema.Hire, out.HiringRecommendation)
	require.Len(t, out.PersonalRoadmap, 1)
	assert.Equal(t, "Generics", out.PersonalRoadmap[0].Topic)
	assert.Empty(t, out.PersonalRoadmap[0].ResourceLink)

	tests := []struct {
		name    string
		content string
	}{
		{"unknown grade", reportJSON("Lead", "Hire", 70)},
		{"unknown recommendation", reportJSON("Senior", "Maybe", 70)},
		{"confidence out of range", reportJSON("Senior", "Hire", 250)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out schema.ReportOutput
			assert.ErrorIs(t, schema.ReportV1.Verify(tt.content, &out), schema.ErrInvalidOutput)
		})
	}
}

func TestParseGrade(t *testing.T) {
	tests := []struct {
		input   string
		want    schema.Grade
		wantErr bool
	}{
		{"Junior", schema.Junior, false},
		{"middle", schema.Middle, false},
		{" SENIOR ", schema.Senior, false},
		{"Lead", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := schema.ParseGrade(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
