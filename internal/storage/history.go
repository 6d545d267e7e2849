package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/radiolab/OpenRadioCore/internal/session"
)

// CommandEntry is one persisted command with its outcome.
type CommandEntry struct {
	ID        int64           `json:"id"`
	SessionID uuid.UUID       `json:"session_id"`
	Command   json.RawMessage `json:"command"`
	Outcome   string          `json:"outcome"`
	LatencyUs int64           `json:"latency_us"`
	CreatedAt time.Time       `json:"created_at"`
}

// RecordCommand satisfies session.Recorder.
func (p *PostgresClient) RecordCommand(ctx context.Context, rec session.CommandRecord) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO command_history (session_id, command, outcome, latency_us)
		VALUES ($1, $2, $3, $4)
	`, rec.SessionID, rec.Command, rec.Outcome, rec.Latency.Microseconds())
	if err != nil {
		return fmt.Errorf("failed to record command: %w", err)
	}
	return nil
}

// ListCommandHistory returns the newest commands of a session, newest first.
func (p *PostgresClient) ListCommandHistory(ctx context.Context, sessionID uuid.UUID, limit int) ([]*CommandEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.pool.Query(ctx, `
		SELECT id, session_id, command, outcome, latency_us, created_at
		FROM command_history
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list command history: %w", err)
	}
	defer rows.Close()

	var entries []*CommandEntry
	for rows.Next() {
		var e CommandEntry
		err := rows.Scan(&e.ID, &e.SessionID, &e.Command, &e.Outcome, &e.LatencyUs, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan command entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, nil
}
