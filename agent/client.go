package agent

import (
	"context"
	"errors"
	"time"

	"github.com/tailored-agentic-units/coach/core/schema"
	"github.com/tailored-agentic-units/coach/observability"
)

// Generation event types.
const (
	EventGenerateStart    observability.EventType = "agent.generate.start"
	EventGenerateComplete observability.EventType = "agent.generate.complete"
	EventGenerateError    observability.EventType = "agent.generate.error"
)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the per-call deadline. Zero disables it.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.timeout = d }
}

// WithObserver sets the event observer. Defaults to NoOpObserver.
func WithObserver(o observability.Observer) ClientOption {
	return func(c *Client) { c.observer = o }
}

// Client performs validated structured generation on top of an Agent.
type Client struct {
	agent    Agent
	timeout  time.Duration
	observer observability.Observer
}

func NewClient(a Agent, opts ...ClientOption) *Client {
	c := &Client{
		agent:    a,
		timeout:  defaultTimeout,
		observer: observability.NoOpObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Agent returns the wrapped capability.
func (c *Client) Agent() Agent { return c.agent }

// Generate runs req and decodes the verified result into out. Every failure
// is a *GenerationError; nothing is retried.
func (c *Client) Generate(ctx context.Context, req Request, out schema.Output) error {
	fail := func(reason Reason, err error) error {
		genErr := &GenerationError{
			Agent:  c.agent.ID(),
			Schema: req.Schema.ID(),
			Reason: reason,
			Err:    err,
		}
		c.observer.OnEvent(ctx, observability.Event{
			Type:      EventGenerateError,
			Level:     observability.LevelError,
			Timestamp: time.Now(),
			Source:    "agent.Client",
			Data: map[string]any{
				"schema": req.Schema.ID(),
				"reason": string(reason),
				"error":  genErr.Error(),
			},
		})
		return genErr
	}

	if len(req.Conversation) == 0 {
		return fail(ReasonEmptyInput, errors.New("conversation is empty"))
	}

	c.observer.OnEvent(ctx, observability.Event{
		Type:      EventGenerateStart,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "agent.Client",
		Data: map[string]any{
			"schema":   req.Schema.ID(),
			"model":    c.agent.Model(),
			"messages": len(req.Conversation),
		},
	})

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := c.agent.Generate(callCtx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return fail(ReasonTimeout, err)
		}
		return fail(ReasonTransport, err)
	}

	if err := req.Schema.Verify(raw, out); err != nil {
		return fail(ReasonSchema, err)
	}

	c.observer.OnEvent(ctx, observability.Event{
		Type:      EventGenerateComplete,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "agent.Client",
		Data: map[string]any{
			"schema":      req.Schema.ID(),
			"duration_ms": time.Since(start).Milliseconds(),
		},
	})

	return nil
}
