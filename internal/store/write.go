package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/spaceagetv/electron-playwright-example/internal/harness"
)

// BeginSession registers a session. Idempotent: re-beginning an
// existing token keeps the original row so a replayed run lands in the
// same session.
func (s *Store) BeginSession(ctx context.Context, token, scenario string) error {
	if token == "" {
		return fmt.Errorf("begin session: empty token")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token, scenario, started_at)
		VALUES (?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`, token, scenario, s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("begin session: %w", err)
	}
	return nil
}

// RecordEvent inserts one trace event. The row id is the sha256 of the
// session token and the event's canonical JSON, so writing the same
// event of the same session twice is a no-op (ON CONFLICT DO NOTHING
// covers both the id and the per-session seq).
func (s *Store) RecordEvent(ctx context.Context, sessionToken string, e harness.TraceEvent) error {
	payload, err := harness.CanonicalEvent(e)
	if err != nil {
		return fmt.Errorf("record event %d: %w", e.Seq, err)
	}

	sum := sha256.Sum256(append([]byte(sessionToken+"\n"), payload...))
	id := hex.EncodeToString(sum[:])

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events (id, session_token, seq, type, op, target, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, id, sessionToken, e.Seq, e.Type, e.Op, e.Target, string(payload))
	if err != nil {
		return fmt.Errorf("record event %d: %w", e.Seq, err)
	}
	return nil
}
