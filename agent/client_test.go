package agent_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/coach/agent"
	"github.com/tailored-agentic-units/coach/agent/mock"
	"github.com/tailored-agentic-units/coach/core/protocol"
	"github.com/tailored-agentic-units/coach/core/schema"
	"github.com/tailored-agentic-units/coach/observability"
)

func summaryRequest() agent.Request {
	return agent.Request{
		System:       "Summarize.",
		Conversation: protocol.InitMessages(protocol.RoleUser, "Turn 1: goroutines."),
		Schema:       schema.SummaryV1,
	}
}

func TestClient_Generate(t *testing.T) {
	m := mock.New().On("summary", mock.JSON(schema.SummaryOutput{Summary: "Knows goroutines."}))
	rec := observability.NewRecorder()
	c := agent.NewClient(m, agent.WithObserver(rec))

	var out schema.SummaryOutput
	require.NoError(t, c.Generate(context.Background(), summaryRequest(), &out))
	assert.Equal(t, "Knows goroutines.", out.Summary)

	assert.Len(t, rec.OfType(agent.EventGenerateStart), 1)
	assert.Len(t, rec.OfType(agent.EventGenerateComplete), 1)
	assert.Empty(t, rec.OfType(agent.EventGenerateError))
	assert.Same(t, m, c.Agent())
}

func TestClient_Generate_Failures(t *testing.T) {
	boom := errors.New("connection reset")

	tests := []struct {
		name       string
		script     mock.Response
		req        func() agent.Request
		timeout    time.Duration
		wantReason agent.Reason
	}{
		{
			name:       "transport",
			script:     mock.Fail(boom),
			req:        summaryRequest,
			wantReason: agent.ReasonTransport,
		},
		{
			name:       "schema mismatch",
			script:     mock.Response{Content: `{"text":"wrong field"}`},
			req:        summaryRequest,
			wantReason: agent.ReasonSchema,
		},
		{
			name:       "not json",
			script:     mock.Response{Content: "I think the candidate is fine."},
			req:        summaryRequest,
			wantReason: agent.ReasonSchema,
		},
		{
			name:   "empty conversation",
			script: mock.JSON(schema.SummaryOutput{Summary: "x"}),
			req: func() agent.Request {
				r := summaryRequest()
				r.Conversation = nil
				return r
			},
			wantReason: agent.ReasonEmptyInput,
		},
		{
			name:       "deadline",
			script:     mock.Response{Content: `{"summary":"late"}`, Delay: time.Second},
			req:        summaryRequest,
			timeout:    10 * time.Millisecond,
			wantReason: agent.ReasonTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mock.New().On("summary", tt.script)
			opts := []agent.ClientOption{}
			if tt.timeout > 0 {
				opts = append(opts, agent.WithTimeout(tt.timeout))
			}
			c := agent.NewClient(m, opts...)

			var out schema.SummaryOutput
			err := c.Generate(context.Background(), tt.req(), &out)

			require.ErrorIs(t, err, agent.ErrGeneration)

			var genErr *agent.GenerationError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, tt.wantReason, genErr.Reason)
			assert.Equal(t, "summary.v1", genErr.Schema)
			assert.Equal(t, m.ID(), genErr.Agent)
		})
	}
}

func TestClient_Generate_WrapsCause(t *testing.T) {
	boom := errors.New("connection reset")
	c := agent.NewClient(mock.New().On("summary", mock.Fail(boom)))

	var out schema.SummaryOutput
	err := c.Generate(context.Background(), summaryRequest(), &out)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "summary.v1")
}

func TestConfig_Merge(t *testing.T) {
	cfg := agent.DefaultConfig()
	cfg.Merge(&agent.Config{Model: "gpt-4o", APIKey: "k", Timeout: 5 * time.Second})

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Timeout)

	cfg.Merge(&agent.Config{})
	assert.Equal(t, "gpt-4o", cfg.Model, "zero values preserve existing")
}

func TestNew_RequiresKeyForOpenAI(t *testing.T) {
	cfg := agent.DefaultConfig()
	_, err := agent.New(&cfg)
	assert.Error(t, err)

	cfg.APIKey = "k"
	a, err := agent.New(&cfg)
	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-4o-mini", a.Model())
}
