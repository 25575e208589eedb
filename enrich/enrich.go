// Package enrich attaches a resource link to each roadmap item of a final
// report.
//
// Every item gets exactly one outcome in its own ResourceLink field: the
// first URL found by the lookup, a fallback note when nothing usable came
// back, or the lookup error rendered inline. A failed lookup never affects
// sibling items and Enrich itself never fails.
package enrich

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/tailored-agentic-units/coach/core/schema"
	"github.com/tailored-agentic-units/coach/lookup"
	"github.com/tailored-agentic-units/coach/observability"
	"github.com/tailored-agentic-units/coach/orchestrate/workflows"
)

const (
	EventItemLinked   observability.EventType = "enrich.item.linked"
	EventItemFallback observability.EventType = "enrich.item.fallback"
	EventItemError    observability.EventType = "enrich.item.error"
)

var urlPattern = regexp.MustCompile(`(https?://[^\s,\]"']+)`)

// FirstURL returns the first http(s) URL in text, or "".
func FirstURL(text string) string {
	return urlPattern.FindString(text)
}

// IsLink reports whether s is a complete http(s) URL and nothing else.
// Fallback notes and inline errors are not links.
func IsLink(s string) bool {
	if s == "" || FirstURL(s) != s {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Host != ""
}

// LookupError describes a failed lookup for one roadmap topic. It is
// rendered into the item, never returned.
type LookupError struct {
	Topic string
	Query string
	Err   error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup for %q failed: %v", e.Topic, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithObserver sets the observer for per-item events.
func WithObserver(o observability.Observer) Option {
	return func(e *Enricher) { e.observer = o }
}

// Enricher runs one lookup per roadmap item.
type Enricher struct {
	searcher lookup.Searcher
	cfg      Config
	observer observability.Observer
}

// New creates an Enricher over searcher. Empty config fields take their
// defaults.
func New(searcher lookup.Searcher, cfg Config, opts ...Option) *Enricher {
	merged := DefaultConfig()
	merged.Merge(&cfg)
	failFast := false
	merged.Parallel.FailFastNil = &failFast

	e := &Enricher{
		searcher: searcher,
		cfg:      merged,
		observer: observability.NoOpObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Query builds the search query for a topic.
func (e *Enricher) Query(topic, position string) string {
	if strings.TrimSpace(position) == "" {
		position = DefaultPosition
	}
	return strings.Join(strings.Fields(topic+" "+e.cfg.QuerySuffix+" "+position), " ")
}

type outcome struct {
	item schema.RoadmapItem
	done bool
}

// Enrich returns a copy of report with every roadmap item's ResourceLink
// set. Items that already carry a valid link keep it. Output order matches
// input order.
func (e *Enricher) Enrich(ctx context.Context, report schema.ReportOutput, position string) schema.ReportOutput {
	items := append([]schema.RoadmapItem(nil), report.PersonalRoadmap...)
	report.PersonalRoadmap = items
	if len(items) == 0 {
		return report
	}

	processor := func(ctx context.Context, item schema.RoadmapItem) (outcome, error) {
		return outcome{item: e.enrichItem(ctx, item, position), done: true}, nil
	}

	result, err := workflows.ProcessParallel(ctx, e.cfg.Parallel, items, processor, nil, workflows.WithObserver(e.observer))

	for i := range items {
		if i < len(result.Results) && result.Results[i].done {
			items[i] = result.Results[i].item
			continue
		}
		// Not reached because the run stopped early; render why.
		if !IsLink(items[i].ResourceLink) {
			reason := err
			if reason == nil {
				reason = ctx.Err()
			}
			if reason == nil {
				reason = fmt.Errorf("lookup not attempted")
			}
			items[i].ResourceLink = e.cfg.ErrorPrefix + reason.Error()
		}
	}

	return report
}

func (e *Enricher) enrichItem(ctx context.Context, item schema.RoadmapItem, position string) schema.RoadmapItem {
	if IsLink(item.ResourceLink) {
		return item
	}

	query := e.Query(item.Topic, position)
	text, err := e.searcher.Search(ctx, query)
	if err != nil {
		lookupErr := &LookupError{Topic: item.Topic, Query: query, Err: err}
		item.ResourceLink = e.cfg.ErrorPrefix + err.Error()
		e.emit(ctx, EventItemError, observability.LevelWarning, item.Topic, map[string]any{
			"query": query,
			"error": lookupErr.Error(),
		})
		return item
	}

	if link := FirstURL(text); link != "" {
		item.ResourceLink = link
		e.emit(ctx, EventItemLinked, observability.LevelVerbose, item.Topic, map[string]any{
			"query": query,
			"link":  link,
		})
		return item
	}

	item.ResourceLink = e.cfg.Fallback
	e.emit(ctx, EventItemFallback, observability.LevelInfo, item.Topic, map[string]any{
		"query": query,
	})
	return item
}

func (e *Enricher) emit(ctx context.Context, t observability.EventType, level observability.Level, topic string, data map[string]any) {
	data["topic"] = topic
	e.observer.OnEvent(ctx, observability.Event{
		Type:      t,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "enrich.Enrich",
		Data:      data,
	})
}
