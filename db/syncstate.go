// ABOUTME: Per-user sync state for external importers
// ABOUTME: Tracks status, last error and the incremental sync token per service
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sync statuses.
const (
	SyncIdle    = "idle"
	SyncSyncing = "syncing"
	SyncError   = "error"
)

type SyncState struct {
	Service       string
	LastSyncTime  *time.Time
	LastSyncToken *string
	Status        string
	ErrorMessage  *string
	UpdatedAt     time.Time
}

// GetSyncState returns nil, nil when the service has never synced.
func (s *Store) GetSyncState(ctx context.Context, userID uuid.UUID, service string) (*SyncState, error) {
	var state SyncState
	var lastSyncTime sql.NullInt64
	var lastSyncToken, errorMessage sql.NullString
	var updatedAt int64

	err := s.db.QueryRowContext(ctx, `
		SELECT service, last_sync_time, last_sync_token, status, error_message, updated_at
		FROM sync_state
		WHERE user_id = ? AND service = ?
	`, userID.String(), service).Scan(
		&state.Service, &lastSyncTime, &lastSyncToken, &state.Status, &errorMessage, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync state: %w", err)
	}

	state.LastSyncTime = nullableMillis(lastSyncTime)
	if lastSyncToken.Valid {
		state.LastSyncToken = &lastSyncToken.String
	}
	if errorMessage.Valid {
		state.ErrorMessage = &errorMessage.String
	}
	state.UpdatedAt = fromMillis(updatedAt)
	return &state, nil
}

// UpdateSyncStatus records status and an optional error message.
func (s *Store) UpdateSyncStatus(ctx context.Context, userID uuid.UUID, service, status string, errorMsg *string) error {
	var msg sql.NullString
	if errorMsg != nil {
		msg = sql.NullString{String: *errorMsg, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_state (user_id, service, status, error_message, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, service) DO UPDATE SET
			status = excluded.status,
			error_message = excluded.error_message,
			updated_at = excluded.updated_at
	`, userID.String(), service, status, msg, toMillis(s.Now()))
	if err != nil {
		return fmt.Errorf("failed to update sync status: %w", err)
	}
	return nil
}

// UpdateSyncToken stores the token for the next incremental sync and
// marks the service idle.
func (s *Store) UpdateSyncToken(ctx context.Context, userID uuid.UUID, service, token string) error {
	now := toMillis(s.Now())
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_state (user_id, service, last_sync_time, last_sync_token, status, updated_at)
		VALUES (?, ?, ?, ?, 'idle', ?)
		ON CONFLICT(user_id, service) DO UPDATE SET
			last_sync_time = excluded.last_sync_time,
			last_sync_token = excluded.last_sync_token,
			status = 'idle',
			error_message = NULL,
			updated_at = excluded.updated_at
	`, userID.String(), service, now, token, now)
	if err != nil {
		return fmt.Errorf("failed to update sync token: %w", err)
	}
	return nil
}

// ClearSyncToken records a completed sync that left nothing to resume
// from. The token is dropped so the next sync reads forward from now.
func (s *Store) ClearSyncToken(ctx context.Context, userID uuid.UUID, service string) error {
	now := toMillis(s.Now())
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_state (user_id, service, last_sync_time, last_sync_token, status, updated_at)
		VALUES (?, ?, ?, NULL, 'idle', ?)
		ON CONFLICT(user_id, service) DO UPDATE SET
			last_sync_time = excluded.last_sync_time,
			last_sync_token = NULL,
			status = 'idle',
			error_message = NULL,
			updated_at = excluded.updated_at
	`, userID.String(), service, now, now)
	if err != nil {
		return fmt.Errorf("failed to clear sync token: %w", err)
	}
	return nil
}
