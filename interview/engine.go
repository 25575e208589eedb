// Package interview runs interview sessions. The Engine owns the role graph
// and a registry of live sessions; front-ends start a session, submit each
// candidate message and receive the interviewer's reply or, once the
// interview stops, the enriched final report.
//
// The engine initializes from configuration via New. Functional options
// override any subsystem for tests.
//
//	e, err := interview.New(cfg)
//	s, err := e.Start(ctx, participant)
//	res, err := e.Submit(ctx, s.ID, "Hello, I am ready.")
package interview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tailored-agentic-units/coach/agent"
	"github.com/tailored-agentic-units/coach/core/protocol"
	"github.com/tailored-agentic-units/coach/core/schema"
	"github.com/tailored-agentic-units/coach/enrich"
	"github.com/tailored-agentic-units/coach/lookup"
	"github.com/tailored-agentic-units/coach/memory"
	"github.com/tailored-agentic-units/coach/observability"
	"github.com/tailored-agentic-units/coach/orchestrate/state"
	"github.com/tailored-agentic-units/coach/roles"
	"github.com/tailored-agentic-units/coach/session"
	"github.com/tailored-agentic-units/coach/transcript"
)

// Agent registry names. DefaultAgent serves every role without its own
// entry.
const (
	DefaultAgent     = "default"
	RoleMentor       = "mentor"
	RoleInterviewer  = "interviewer"
	RoleCompactor    = "compactor"
	RoleReporter     = "reporter"
	searcherDisabled = "none"
)

// Result is the outcome of one submitted turn.
type Result struct {
	Session session.Session

	// Reply is the interviewer message produced this turn. Empty when the
	// interview stopped instead.
	Reply string

	// Report is set once the session is finished.
	Report *schema.ReportOutput

	// Transcript locates the persisted record of a finished session.
	Transcript string
}

// Finished reports whether this turn ended the interview.
func (r *Result) Finished() bool { return r.Report != nil }

// Option configures an Engine after config-driven initialization.
type Option func(*Engine)

// WithAgent uses a for every role instead of the configured registry.
func WithAgent(a agent.Agent) Option {
	return func(e *Engine) { e.agent = a }
}

// WithRegistry overrides the config-created agent registry.
func WithRegistry(r *agent.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithSearcher overrides the configured enrichment searcher. A nil searcher
// disables enrichment.
func WithSearcher(s lookup.Searcher) Option {
	return func(e *Engine) {
		e.searcher = s
		e.searcherSet = true
	}
}

// WithObserver overrides the configured observer.
func WithObserver(o observability.Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithStore overrides the config-created memory store.
func WithStore(s memory.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithSink overrides the config-created transcript sink.
func WithSink(s transcript.Sink) Option {
	return func(e *Engine) { e.sink = s }
}

type entry struct {
	mu      sync.Mutex
	session session.Session
	pending *state.ExecutionError[session.Session]

	// unflushed marks a finished session whose transcript write failed.
	unflushed bool
}

// Engine drives interview sessions. Safe for concurrent use; turns of one
// session are serialized.
type Engine struct {
	cfg         Config
	agent       agent.Agent
	registry    *agent.Registry
	searcher    lookup.Searcher
	searcherSet bool
	observer    observability.Observer
	store       memory.Store
	sink        transcript.Sink
	graph       state.StateGraph[session.Session]

	mu       sync.Mutex
	sessions map[string]*entry
}

// New creates an Engine from configuration.
func New(cfg *Config, opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:      *cfg,
		sessions: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(e)
	}

	var err error
	if e.observer == nil {
		if e.observer, err = observability.GetObserver(cfg.Graph.Observer); err != nil {
			return nil, fmt.Errorf("failed to resolve observer: %w", err)
		}
	}

	if e.registry == nil {
		if e.registry, err = newRegistry(cfg); err != nil {
			return nil, err
		}
	}

	if e.store == nil {
		if e.store, err = memory.NewStore(&cfg.Memory); err != nil {
			return nil, fmt.Errorf("failed to create memory store: %w", err)
		}
	}

	if e.sink == nil {
		if e.sink, err = transcript.NewSink(&cfg.Transcript, e.store); err != nil {
			return nil, fmt.Errorf("failed to create transcript sink: %w", err)
		}
	}

	if !e.searcherSet {
		if e.searcher, err = resolveSearcher(cfg); err != nil {
			return nil, err
		}
	}

	nodes, err := e.nodes()
	if err != nil {
		return nil, err
	}

	var checkpoints state.CheckpointStore[session.Session]
	if cfg.Graph.Checkpoint.Interval > 0 {
		checkpoints, err = state.NewCheckpointStore[session.Session](cfg.Graph.Checkpoint.Store, e.store)
		if err != nil {
			return nil, fmt.Errorf("failed to create checkpoint store: %w", err)
		}
	}

	if e.graph, err = NewGraph(cfg.Graph, nodes, e.observer, checkpoints); err != nil {
		return nil, fmt.Errorf("failed to build interview graph: %w", err)
	}

	return e, nil
}

func newRegistry(cfg *Config) (*agent.Registry, error) {
	reg := agent.NewRegistry()
	if err := reg.Register(DefaultAgent, cfg.Agent); err != nil {
		return nil, err
	}
	for name := range cfg.Agents {
		if name == DefaultAgent {
			continue
		}
		if err := reg.Register(name, cfg.AgentConfig(name)); err != nil {
			return nil, fmt.Errorf("failed to register agent %q: %w", name, err)
		}
	}
	return reg, nil
}

func resolveSearcher(cfg *Config) (lookup.Searcher, error) {
	name := cfg.Enrichment.Searcher
	if name == searcherDisabled {
		return nil, nil
	}

	if name == lookup.DuckDuckGoName && !cfg.Lookup.isZero() {
		var opts []lookup.DuckDuckGoOption
		if cfg.Lookup.RateLimit > 0 {
			burst := cfg.Lookup.Burst
			if burst < 1 {
				burst = 1
			}
			opts = append(opts, lookup.WithRateLimit(cfg.Lookup.RateLimit, burst))
		}
		if cfg.Lookup.MaxResults > 0 {
			opts = append(opts, lookup.WithMaxResults(cfg.Lookup.MaxResults))
		}
		if cfg.Lookup.Timeout > 0 {
			opts = append(opts, lookup.WithHTTPClient(&http.Client{Timeout: cfg.Lookup.Timeout}))
		}
		return lookup.NewDuckDuckGo(opts...), nil
	}

	s, ok := lookup.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: searcher %s", lookup.ErrNotFound, name)
	}
	return s, nil
}

func (e *Engine) client(role string) (*agent.Client, error) {
	a := e.agent
	if a == nil {
		name := role
		if !e.registry.Has(name) {
			name = DefaultAgent
		}
		var err error
		if a, err = e.registry.Get(name); err != nil {
			return nil, fmt.Errorf("failed to resolve %s agent: %w", role, err)
		}
	}
	return agent.NewClient(a,
		agent.WithTimeout(e.cfg.AgentConfig(role).Timeout),
		agent.WithObserver(e.observer),
	), nil
}

func (e *Engine) nodes() (Nodes, error) {
	clients := make(map[string]*agent.Client, 4)
	for _, role := range []string{RoleMentor, RoleInterviewer, RoleCompactor, RoleReporter} {
		c, err := e.client(role)
		if err != nil {
			return Nodes{}, err
		}
		clients[role] = c
	}

	var enricher roles.Enricher
	if e.searcher != nil {
		enricher = enrich.New(e.searcher, e.cfg.Enrichment, enrich.WithObserver(e.observer))
	}

	return Nodes{
		Mentor:      roles.NewMentor(clients[RoleMentor], e.cfg.Roles),
		Interviewer: roles.NewInterviewer(clients[RoleInterviewer], e.cfg.Roles),
		Logger:      roles.NewLogger(),
		Compactor:   roles.NewCompactor(clients[RoleCompactor], e.cfg.Roles),
		Reporter:    roles.NewReporter(clients[RoleReporter], enricher, e.cfg.Roles),
	}, nil
}

// Close releases the transcript sink.
func (e *Engine) Close() error {
	if c, ok := e.sink.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Start creates and registers an active session for p. The caller submits
// the opening message; StartProfile does both.
func (e *Engine) Start(ctx context.Context, p session.Participant) (session.Session, error) {
	s, err := session.New(p, &e.cfg.Session)
	if err != nil {
		return session.Session{}, err
	}

	e.mu.Lock()
	e.sessions[s.ID] = &entry{session: s}
	e.mu.Unlock()

	e.emit(ctx, EventSessionStart, observability.LevelInfo, s.ID, map[string]any{
		"position": p.Position,
		"grade":    string(p.Grade),
	})

	return s.Clone(), nil
}

// StartProfile starts a session for the profile's participant and runs the
// first turn with the profile's first message, or the configured opening
// message when the profile has none. When that turn fails the result still
// carries the new session, so the caller can Retry or Discard it.
func (e *Engine) StartProfile(ctx context.Context, p session.Profile) (*Result, error) {
	s, err := e.Start(ctx, p.Participant)
	if err != nil {
		return nil, err
	}
	res, err := e.Submit(ctx, s.ID, e.openingMessage(p))
	if res == nil {
		res = &Result{Session: s}
	}
	return res, err
}

func (e *Engine) openingMessage(p session.Profile) string {
	if msg := strings.TrimSpace(p.FirstMessage); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(e.cfg.Session.OpeningMessage); msg != "" {
		return msg
	}
	return session.DefaultOpeningMessage
}

// Session returns a copy of the session's current record.
func (e *Engine) Session(id string) (session.Session, error) {
	en, err := e.lookup(id)
	if err != nil {
		return session.Session{}, err
	}
	en.mu.Lock()
	defer en.mu.Unlock()
	return en.session.Clone(), nil
}

// Sessions lists registered session ids in sorted order.
func (e *Engine) Sessions() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]string, 0, len(e.sessions))
	for id := range e.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Submit runs one external turn with the candidate's input.
//
// A failed turn leaves the session's record unchanged and is kept pending:
// further Submit calls return ErrTurnPending until Retry succeeds or Discard
// drops it.
func (e *Engine) Submit(ctx context.Context, sessionID, input string) (*Result, error) {
	en, err := e.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	en.mu.Lock()
	defer en.mu.Unlock()

	if en.session.Status == session.StatusFinished {
		return nil, ErrSessionFinished
	}
	if en.pending != nil {
		return nil, ErrTurnPending
	}

	s := en.session.Clone()
	if err := s.Begin(input); err != nil {
		return nil, err
	}

	e.emit(ctx, EventTurnStart, observability.LevelInfo, sessionID, map[string]any{
		"turn":          len(s.Turns) + 1,
		"answer_length": len(input),
		"stop_phrase":   IsStopPhrase(input),
	})

	out, err := e.graph.Execute(ctx, s)
	return e.settle(ctx, en, out, err)
}

// Retry re-runs the pending failed turn from the node that failed, with the
// state that node received. For a finished session whose transcript could
// not be written, Retry writes it again.
func (e *Engine) Retry(ctx context.Context, sessionID string) (*Result, error) {
	en, err := e.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	en.mu.Lock()
	defer en.mu.Unlock()

	if en.unflushed {
		return e.finish(ctx, en, &Result{Session: en.session.Clone()})
	}
	if en.pending == nil {
		return nil, ErrNoPendingTurn
	}
	p := en.pending

	e.emit(ctx, EventTurnStart, observability.LevelInfo, sessionID, map[string]any{
		"turn":  len(p.State.Turns) + 1,
		"retry": true,
		"node":  p.NodeName,
	})

	out, err := e.graph.ExecuteFrom(ctx, p.NodeName, p.State)
	return e.settle(ctx, en, out, err)
}

// Discard drops the pending failed turn, including the candidate message
// that started it.
func (e *Engine) Discard(sessionID string) error {
	en, err := e.lookup(sessionID)
	if err != nil {
		return err
	}
	en.mu.Lock()
	defer en.mu.Unlock()

	if en.pending == nil {
		return ErrNoPendingTurn
	}
	en.pending = nil
	return nil
}

// Restore reloads a session from its graph checkpoint, finishing the turn
// that was in flight if the checkpoint was taken mid-turn. Requires
// checkpointing; a session that completed a turn is only restorable when
// checkpoints are preserved.
func (e *Engine) Restore(ctx context.Context, sessionID string) (session.Session, error) {
	s, err := e.graph.Resume(ctx, sessionID)
	if err != nil && !errors.Is(err, state.ErrRunComplete) {
		return session.Session{}, fmt.Errorf("failed to restore session %s: %w", sessionID, err)
	}

	e.mu.Lock()
	en, ok := e.sessions[sessionID]
	if !ok {
		en = &entry{}
		e.sessions[sessionID] = en
	}
	e.mu.Unlock()

	en.mu.Lock()
	defer en.mu.Unlock()
	en.session = s
	en.pending = nil
	en.unflushed = false

	e.emit(ctx, EventSessionResume, observability.LevelInfo, sessionID, map[string]any{
		"status": string(s.Status),
		"turns":  len(s.Turns),
	})

	if s.Status == session.StatusFinished {
		if _, err := e.finish(ctx, en, &Result{Session: s.Clone()}); err != nil {
			return s.Clone(), err
		}
	}
	return s.Clone(), nil
}

// settle records a graph run's outcome. Callers hold en.mu.
func (e *Engine) settle(ctx context.Context, en *entry, out session.Session, err error) (*Result, error) {
	id := en.session.ID

	if err != nil {
		data := map[string]any{"error": err.Error()}
		if execErr, ok := state.AsExecutionError[session.Session](err); ok {
			en.pending = execErr
			data["node"] = execErr.NodeName
		}
		e.emit(ctx, EventTurnFailed, observability.LevelError, id, data)
		return nil, fmt.Errorf("turn failed: %w", err)
	}

	en.pending = nil
	en.session = out

	res := &Result{Session: out.Clone(), Reply: reply(out)}

	e.emit(ctx, EventTurnComplete, observability.LevelInfo, id, map[string]any{
		"turns":      len(out.Turns),
		"status":     string(out.Status),
		"confidence": out.Control.MentorConfidence,
		"replied":    res.Reply != "",
	})

	if out.Status != session.StatusFinished {
		return res, nil
	}

	e.emit(ctx, EventReportReady, observability.LevelInfo, id, map[string]any{
		"grade":          string(out.FinalReport.Grade),
		"recommendation": string(out.FinalReport.HiringRecommendation),
	})

	return e.finish(ctx, en, res)
}

// finish writes the transcript of the finished session in res. On failure
// the result still carries the report and the entry stays unflushed so that
// Retry can write it again. Callers hold en.mu.
func (e *Engine) finish(ctx context.Context, en *entry, res *Result) (*Result, error) {
	res.Report = res.Session.FinalReport

	loc, err := e.flush(ctx, en.session)
	if err != nil {
		en.unflushed = true
		return res, err
	}
	en.unflushed = false
	res.Transcript = loc
	return res, nil
}

// flush writes the transcript record of a finished session.
func (e *Engine) flush(ctx context.Context, s session.Session) (string, error) {
	record, err := transcript.FromSession(s)
	if err != nil {
		return "", err
	}

	start := time.Now()
	loc, err := e.sink.Write(ctx, record)
	if err != nil {
		e.emit(ctx, EventFlush, observability.LevelError, s.ID, map[string]any{"error": err.Error()})
		return "", fmt.Errorf("failed to persist transcript: %w", err)
	}

	e.emit(ctx, EventFlush, observability.LevelInfo, s.ID, map[string]any{
		"location":    loc,
		"turns":       len(record.Turns),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return loc, nil
}

func (e *Engine) lookup(id string) (*entry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	en, ok := e.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return en, nil
}

func (e *Engine) emit(ctx context.Context, t observability.EventType, level observability.Level, sessionID string, data map[string]any) {
	data["session_id"] = sessionID
	e.observer.OnEvent(ctx, observability.Event{
		Type:      t,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "interview.Engine",
		Data:      data,
	})
}

// reply returns the interviewer message that follows the candidate's latest
// message, if any.
func reply(s session.Session) string {
	u := s.Messages.LastIndex(protocol.RoleUser)
	a := s.Messages.LastIndex(protocol.RoleAssistant)
	if a <= u {
		return ""
	}
	m, _ := s.Messages.At(a)
	return m.Content
}
