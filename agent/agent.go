// Package agent provides the structured generation capability used by the
// role nodes. An Agent turns a system instruction, a conversation and an
// output schema into raw JSON; a Client wraps an Agent with a per-call
// deadline, schema verification and a single GenerationError failure kind.
package agent

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/coach/agent/providers"
	"github.com/tailored-agentic-units/coach/core/protocol"
	"github.com/tailored-agentic-units/coach/core/schema"
)

// Request is one structured generation call.
type Request struct {
	System       string
	Conversation []protocol.Message
	Schema       schema.Schema
}

// Agent is an external text-generation capability. Generate returns the raw
// model output; it performs no validation and no retries.
type Agent interface {
	ID() string
	Model() string
	Generate(ctx context.Context, req Request) (string, error)
}

type agent struct {
	id       string
	model    string
	provider providers.Provider
}

// New creates an Agent from configuration.
func New(cfg *Config) (Agent, error) {
	p, err := providers.New(providers.Config{
		Name:        cfg.Provider,
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	return &agent{
		id:       uuid.Must(uuid.NewV7()).String(),
		model:    cfg.Model,
		provider: p,
	}, nil
}

func (a *agent) ID() string    { return a.id }
func (a *agent) Model() string { return a.model }

func (a *agent) Generate(ctx context.Context, req Request) (string, error) {
	return a.provider.Complete(ctx, providers.Completion{
		System:            req.System,
		Messages:          req.Conversation,
		SchemaName:        req.Schema.Name,
		SchemaDescription: req.Schema.Description,
		Schema:            &req.Schema.Definition,
	})
}
