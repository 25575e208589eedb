package providers

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tailored-agentic-units/coach/core/protocol"
)

type openAI struct {
	name        string
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAI creates a Provider for any OpenAI-compatible chat completions
// endpoint. Responses are constrained with a strict json_schema format.
func NewOpenAI(name string, cfg Config) Provider {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &openAI{
		name:        name,
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

func (p *openAI) Name() string { return p.name }

func (p *openAI) Complete(ctx context.Context, c Completion) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(c.Messages)+1)
	if c.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: c.System,
		})
	}
	for _, m := range c.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    chatRole(m.Role),
			Content: m.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	}
	if c.Schema != nil {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        c.SchemaName,
				Description: c.SchemaDescription,
				Strict:      true,
				Schema:      c.Schema,
			},
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}

func chatRole(r protocol.Role) string {
	switch r {
	case protocol.RoleSystem:
		return openai.ChatMessageRoleSystem
	case protocol.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}
