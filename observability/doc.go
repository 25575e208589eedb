// Package observability carries the structured events emitted by the
// interview engine, the role nodes, enrichment and the state graph.
//
// Subsystems never log directly. They emit an Event to an Observer, and the
// observer decides where it goes:
//
//   - ZapObserver writes to a zap.Logger. The coach CLI builds one at start
//     up and registers it as "zap".
//   - SlogObserver writes to a slog.Logger and is the library default
//     ("slog").
//   - MultiObserver fans out to several observers.
//   - NoOpObserver ("noop") drops everything.
//   - Recorder keeps events in memory for tests.
//
// Level values align with OpenTelemetry SeverityNumbers, so events translate
// directly to OTel log records.
package observability
