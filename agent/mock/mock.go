// Package mock provides a scripted agent.Agent for tests. Responses are
// queued per schema name; the last queued response for a schema repeats once
// the queue drains.
package mock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/coach/agent"
)

// ErrNoResponse is returned when no response is scripted for a schema.
var ErrNoResponse = errors.New("mock: no response scripted")

// Response is one scripted generation outcome.
type Response struct {
	Content string
	Err     error
	Delay   time.Duration
}

// JSON scripts v marshaled as the response content.
func JSON(v any) Response {
	data, err := json.Marshal(v)
	if err != nil {
		return Response{Err: fmt.Errorf("mock: marshal: %w", err)}
	}
	return Response{Content: string(data)}
}

// Fail scripts a transport failure.
func Fail(err error) Response {
	return Response{Err: err}
}

// Agent is a scripted agent.Agent. Safe for concurrent use.
type Agent struct {
	id    string
	model string

	mu     sync.Mutex
	script map[string][]Response
	calls  []agent.Request
}

// New creates an Agent with no scripted responses.
func New() *Agent {
	return &Agent{
		id:     uuid.Must(uuid.NewV7()).String(),
		model:  "mock",
		script: make(map[string][]Response),
	}
}

// On queues responses for requests using the named schema.
func (a *Agent) On(schemaName string, responses ...Response) *Agent {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.script[schemaName] = append(a.script[schemaName], responses...)
	return a
}

func (a *Agent) ID() string    { return a.id }
func (a *Agent) Model() string { return a.model }

func (a *Agent) Generate(ctx context.Context, req agent.Request) (string, error) {
	a.mu.Lock()
	a.calls = append(a.calls, req)
	queue := a.script[req.Schema.Name]
	if len(queue) == 0 {
		a.mu.Unlock()
		return "", fmt.Errorf("%w: %s", ErrNoResponse, req.Schema.Name)
	}
	resp := queue[0]
	if len(queue) > 1 {
		a.script[req.Schema.Name] = queue[1:]
	}
	a.mu.Unlock()

	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if resp.Err != nil {
		return "", resp.Err
	}
	return resp.Content, nil
}

// Calls returns every request received, in order.
func (a *Agent) Calls() []agent.Request {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]agent.Request, len(a.calls))
	copy(out, a.calls)
	return out
}

// CallCount returns how many requests used the named schema.
func (a *Agent) CallCount(schemaName string) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := 0
	for _, c := range a.calls {
		if c.Schema.Name == schemaName {
			n++
		}
	}
	return n
}
