// Package providers adapts external chat-completion APIs to the structured
// generation call used by agents.
package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tailored-agentic-units/coach/core/protocol"
)

var (
	ErrUnknownProvider = errors.New("unknown provider")
	ErrMissingAPIKey   = errors.New("api key is required")
	ErrMissingModel    = errors.New("model is required")
	ErrEmptyResponse   = errors.New("provider returned no choices")
)

// Completion is a schema-constrained chat completion request.
type Completion struct {
	System            string
	Messages          []protocol.Message
	SchemaName        string
	SchemaDescription string
	Schema            json.Marshaler
}

// Provider executes completions against one backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, c Completion) (string, error)
}

// Config selects and parameterizes a provider.
type Config struct {
	Name        string
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
}

// New creates a Provider. "openai" needs an API key and accepts any
// OpenAI-compatible base URL; "ollama" talks to a local server's /v1 API.
func New(cfg Config) (Provider, error) {
	if cfg.Model == "" {
		return nil, ErrMissingModel
	}

	switch strings.ToLower(cfg.Name) {
	case "openai", "":
		if cfg.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		return NewOpenAI("openai", cfg), nil
	case "ollama":
		base := strings.TrimSuffix(cfg.BaseURL, "/")
		if base == "" {
			base = "http://localhost:11434"
		}
		if !strings.HasSuffix(base, "/v1") {
			base += "/v1"
		}
		cfg.BaseURL = base
		if cfg.APIKey == "" {
			cfg.APIKey = "ollama"
		}
		return NewOpenAI("ollama", cfg), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Name)
	}
}
