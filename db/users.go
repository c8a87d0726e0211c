// ABOUTME: User account operations
// ABOUTME: Users are the tenants every owner hangs off
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/officecrm/models"
	"github.com/mattn/go-sqlite3"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	user.Username = strings.TrimSpace(user.Username)
	if err := user.Validate(); err != nil {
		return err
	}

	user.ID = uuid.New()
	user.CreatedAt = s.Now()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, created_at) VALUES (?, ?, ?)`,
		user.ID.String(), user.Username, toMillis(user.CreatedAt),
	)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return &models.ValidationError{Fields: []models.FieldError{{
			Field:   "username",
			Message: fmt.Sprintf("%q is already taken", user.Username),
		}}}
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.getUser(ctx, `id = ?`, id.String(), id.String())
}

func (s *Store) GetUserByName(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx, `username = ?`, strings.TrimSpace(username), username)
}

func (s *Store) getUser(ctx context.Context, where string, arg any, label string) (*models.User, error) {
	var user models.User
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, created_at FROM users WHERE `+where, arg,
	).Scan(&user.ID, &user.Username, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", label, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.CreatedAt = fromMillis(createdAt)
	return &user, nil
}

func requireUser(ctx context.Context, q querier, userID uuid.UUID) error {
	var exists int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, userID.String()).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("user", userID)
	}
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	return nil
}
