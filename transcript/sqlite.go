package transcript

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS interviews (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL UNIQUE,
	participant_name TEXT NOT NULL,
	position TEXT NOT NULL,
	grade TEXT,
	recommendation TEXT,
	turns INTEGER NOT NULL,
	record_json TEXT NOT NULL,
	completed_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_interviews_participant ON interviews(participant_name);
`

// SQLiteSink stores one row per finished interview. The full record is kept
// as JSON next to a few queryable columns.
type SQLiteSink struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path. ":memory:" is accepted.
func OpenSQLite(path string) (*SQLiteSink, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

func (s *SQLiteSink) Write(ctx context.Context, r Record) (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to encode transcript: %w", err)
	}

	var grade, recommendation string
	if r.FinalReport != nil {
		grade = string(r.FinalReport.Grade)
		recommendation = string(r.FinalReport.HiringRecommendation)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO interviews (session_id, participant_name, position, grade, recommendation, turns, record_json, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.ParticipantName, r.Participant.Position, grade, recommendation,
		len(r.Turns), string(data), r.CompletedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert transcript: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("failed to read row id: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// Summary is one row of List.
type Summary struct {
	ID              int64
	SessionID       string
	ParticipantName string
	Grade           string
	Recommendation  string
	Turns           int
}

// List returns stored interviews, newest first.
func (s *SQLiteSink) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, participant_name, grade, recommendation, turns
		 FROM interviews ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcripts: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var row Summary
		if err := rows.Scan(&row.ID, &row.SessionID, &row.ParticipantName, &row.Grade, &row.Recommendation, &row.Turns); err != nil {
			return nil, fmt.Errorf("failed to scan transcript: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Get loads the full record for sessionID.
func (s *SQLiteSink) Get(ctx context.Context, sessionID string) (Record, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT record_json FROM interviews WHERE session_id = ?`, sessionID,
	).Scan(&data)
	if err != nil {
		return Record{}, fmt.Errorf("failed to load transcript %s: %w", sessionID, err)
	}

	var r Record
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return Record{}, fmt.Errorf("failed to decode transcript %s: %w", sessionID, err)
	}
	return r, nil
}
