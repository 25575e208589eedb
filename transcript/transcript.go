// Package transcript persists the record of a finished interview and
// renders its final report for people.
//
// A Record is written once, at session end, through a Sink. FileSink writes
// numbered JSON documents into a memory.Store; SQLiteSink appends rows to a
// local database.
package transcript

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tailored-agentic-units/coach/core/schema"
	"github.com/tailored-agentic-units/coach/memory"
	"github.com/tailored-agentic-units/coach/session"
)

// Sink kinds accepted by Config.Sink.
const (
	SinkFile   = "file"
	SinkSQLite = "sqlite"
	SinkNone   = "none"
)

var (
	ErrNotFinished = errors.New("session is not finished")
	ErrUnknownSink = errors.New("unknown transcript sink")
)

// Record is the persisted form of a finished interview. Field names are
// stable across versions.
type Record struct {
	ParticipantName string               `json:"participant_name"`
	SessionID       string               `json:"session_id"`
	Participant     session.Participant  `json:"participant"`
	Turns           []session.TurnLog    `json:"turns"`
	FinalReport     *schema.ReportOutput `json:"final_report"`
	FinalFeedback   string               `json:"final_feedback"`
	Summary         string               `json:"summary"`
	CompletedAt     time.Time            `json:"completed_at"`
}

// FromSession builds the record for a finished session.
func FromSession(s session.Session) (Record, error) {
	if s.Status != session.StatusFinished || s.FinalReport == nil {
		return Record{}, fmt.Errorf("%w: %s (%s)", ErrNotFinished, s.ID, s.Status)
	}

	c := s.Clone()
	turns := c.Turns
	if turns == nil {
		turns = []session.TurnLog{}
	}

	return Record{
		ParticipantName: c.Participant.Name,
		SessionID:       c.ID,
		Participant:     c.Participant,
		Turns:           turns,
		FinalReport:     c.FinalReport,
		FinalFeedback:   Text(*c.FinalReport),
		Summary:         c.Summary,
		CompletedAt:     time.Now().UTC(),
	}, nil
}

// Sink stores finished interview records. Write returns a locator for the
// stored record: a store key, a row id, or empty for the no-op sink.
type Sink interface {
	Write(ctx context.Context, r Record) (string, error)
}

type noopSink struct{}

func (noopSink) Write(context.Context, Record) (string, error) { return "", nil }

// NoOp discards every record.
func NoOp() Sink { return noopSink{} }

// Config selects and configures the sink.
type Config struct {
	Sink string `json:"sink,omitempty" mapstructure:"sink" yaml:"sink,omitempty"`

	// Path is the SQLite database file for the sqlite sink.
	Path string `json:"path,omitempty" mapstructure:"path" yaml:"path,omitempty"`
}

func DefaultConfig() Config {
	return Config{Sink: SinkFile, Path: "interviews.db"}
}

func (c *Config) Merge(source *Config) {
	if source.Sink != "" {
		c.Sink = source.Sink
	}
	if source.Path != "" {
		c.Path = source.Path
	}
}

// NewSink creates the configured sink. The file sink writes into store.
func NewSink(cfg *Config, store memory.Store) (Sink, error) {
	switch cfg.Sink {
	case SinkFile, "":
		if store == nil {
			return nil, errors.New("file sink requires a memory store")
		}
		return NewFileSink(store), nil
	case SinkSQLite:
		return OpenSQLite(cfg.Path)
	case SinkNone:
		return NoOp(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSink, cfg.Sink)
	}
}
