package interview

import "github.com/tailored-agentic-units/coach/observability"

// Interview event types.
const (
	EventSessionStart  observability.EventType = "interview.session.start"
	EventTurnStart     observability.EventType = "interview.turn.start"
	EventTurnComplete  observability.EventType = "interview.turn.complete"
	EventTurnFailed    observability.EventType = "interview.turn.failed"
	EventReportReady   observability.EventType = "interview.report.ready"
	EventFlush         observability.EventType = "interview.flush"
	EventSessionResume observability.EventType = "interview.session.resume"
)
