package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spaceagetv/electron-playwright-example/internal/harness"
)

// Session describes one recorded scenario run.
type Session struct {
	Token     string `json:"token"`
	Scenario  string `json:"scenario"`
	StartedAt string `json:"started_at"`
}

// ReadSession returns the session's trace events in execution order.
// Fails when the token is unknown; a known session with no events
// returns an empty slice.
func (s *Store) ReadSession(ctx context.Context, token string) ([]harness.TraceEvent, error) {
	var exists string
	err := s.db.QueryRowContext(ctx,
		`SELECT token FROM sessions WHERE token = ?`, token).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %q not found", token)
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT payload
		FROM events
		WHERE session_token = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, token)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []harness.TraceEvent{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		var event harness.TraceEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			return nil, fmt.Errorf("decode event payload: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// ListSessions returns all recorded sessions, most recent first, with
// token as the tiebreak so the order is deterministic.
func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, scenario, started_at
		FROM sessions
		ORDER BY started_at DESC, token ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var session Session
		if err := rows.Scan(&session.Token, &session.Scenario, &session.StartedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}
