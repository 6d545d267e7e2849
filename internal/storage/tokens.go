package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type MachineToken struct {
	ID          uuid.UUID  `json:"id"`
	TokenHash   string     `json:"-"` // Never expose
	Name        string     `json:"name"`
	Permissions []string   `json:"permissions"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUsedAt  *time.Time `json:"last_used_at"`
}

func (p *PostgresClient) CreateMachineToken(ctx context.Context, tokenHash, name string, permissions []string) (*MachineToken, error) {
	var token MachineToken
	err := p.pool.QueryRow(ctx, `
		INSERT INTO machine_tokens (token_hash, name, permissions)
		VALUES ($1, $2, $3)
		RETURNING id, token_hash, name, permissions, created_at, last_used_at
	`, tokenHash, name, permissions).Scan(
		&token.ID, &token.TokenHash, &token.Name, &token.Permissions,
		&token.CreatedAt, &token.LastUsedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create machine token: %w", err)
	}
	return &token, nil
}

func (p *PostgresClient) GetMachineTokenByHash(ctx context.Context, tokenHash string) (*MachineToken, error) {
	var token MachineToken
	err := p.pool.QueryRow(ctx, `
		SELECT id, token_hash, name, permissions, created_at, last_used_at
		FROM machine_tokens
		WHERE token_hash = $1
	`, tokenHash).Scan(
		&token.ID, &token.TokenHash, &token.Name, &token.Permissions,
		&token.CreatedAt, &token.LastUsedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("token not found")
		}
		return nil, fmt.Errorf("failed to get machine token: %w", err)
	}
	return &token, nil
}

func (p *PostgresClient) UpdateMachineTokenLastUsed(ctx context.Context, tokenID uuid.UUID) error {
	_, err := p.pool.Exec(ctx, `
		UPDATE machine_tokens SET last_used_at = NOW() WHERE id = $1
	`, tokenID)
	return err
}

func (p *PostgresClient) ListMachineTokens(ctx context.Context) ([]*MachineToken, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, name, permissions, created_at, last_used_at
		FROM machine_tokens
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list machine tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*MachineToken
	for rows.Next() {
		var token MachineToken
		err := rows.Scan(
			&token.ID, &token.Name, &token.Permissions,
			&token.CreatedAt, &token.LastUsedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan machine token: %w", err)
		}
		tokens = append(tokens, &token)
	}
	return tokens, nil
}

func (p *PostgresClient) DeleteMachineToken(ctx context.Context, tokenID uuid.UUID) error {
	result, err := p.pool.Exec(ctx, `DELETE FROM machine_tokens WHERE id = $1`, tokenID)
	if err != nil {
		return fmt.Errorf("failed to delete machine token: %w", err)
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Auth Event Logging
func (p *PostgresClient) LogAuthEvent(ctx context.Context, eventType string, machineTokenID *uuid.UUID, ipAddress string, success bool, reason string) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO auth_events (event_type, machine_token_id, ip_address, success, reason)
		VALUES ($1, $2, $3, $4, $5)
	`, eventType, machineTokenID, ipAddress, success, reason)
	return err
}
