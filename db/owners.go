// ABOUTME: Owner operations including the cascading subtree delete
// ABOUTME: Owners are the root of every tenant-visible hierarchy
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/officecrm/metrics"
	"github.com/harperreed/officecrm/models"
	"go.uber.org/zap"
)

func (s *Store) CreateOwner(ctx context.Context, userID uuid.UUID, owner *models.Owner) error {
	owner.Name = strings.TrimSpace(owner.Name)
	owner.Email = strings.TrimSpace(owner.Email)
	if err := owner.Validate(); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireUser(ctx, tx, userID); err != nil {
			return err
		}

		owner.ID = uuid.New()
		owner.UserID = userID
		owner.LastContacted = nil

		_, err := tx.ExecContext(ctx,
			`INSERT INTO owners (id, user_id, name, email) VALUES (?, ?, ?, ?)`,
			owner.ID.String(), userID.String(), owner.Name, nullableString(owner.Email),
		)
		if err != nil {
			return fmt.Errorf("failed to create owner: %w", err)
		}
		return nil
	})
}

func (s *Store) GetOwner(ctx context.Context, userID, ownerID uuid.UUID) (*models.Owner, error) {
	return scopedOwner(ctx, s.db, userID, ownerID)
}

// UpdateOwner saves the name and email of owner.ID. The user and
// last-contacted time are reloaded from the stored row.
func (s *Store) UpdateOwner(ctx context.Context, userID uuid.UUID, owner *models.Owner) error {
	owner.Name = strings.TrimSpace(owner.Name)
	owner.Email = strings.TrimSpace(owner.Email)
	if err := owner.Validate(); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := scopedOwner(ctx, tx, userID, owner.ID)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE owners SET name = ?, email = ? WHERE id = ? AND user_id = ?`,
			owner.Name, nullableString(owner.Email), owner.ID.String(), userID.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to update owner: %w", err)
		}
		owner.UserID = existing.UserID
		owner.LastContacted = existing.LastContacted
		return nil
	})
}

// ListOwners returns the user's owners ordered by name.
func (s *Store) ListOwners(ctx context.Context, userID uuid.UUID) ([]models.Owner, error) {
	return listOwners(ctx, s.db, userID)
}

func listOwners(ctx context.Context, q querier, userID uuid.UUID) ([]models.Owner, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+ownerColumns+`
		FROM owners o
		WHERE o.user_id = ?
		ORDER BY o.name COLLATE NOCASE, o.id
	`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	defer rows.Close()

	owners := []models.Owner{}
	for rows.Next() {
		owner, err := scanOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan owner: %w", err)
		}
		owners = append(owners, *owner)
	}
	return owners, rows.Err()
}

// DeleteOwner removes the owner and everything beneath it in one
// transaction. Deletes run leaf-first so the result does not depend on
// foreign key enforcement.
func (s *Store) DeleteOwner(ctx context.Context, userID, ownerID uuid.UUID) error {
	var reports, employees, offices int64

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := scopedOwner(ctx, tx, userID, ownerID); err != nil {
			return err
		}
		id := ownerID.String()

		const ownedReports = `owner_id = ? OR office_id IN (SELECT id FROM offices WHERE owner_id = ?)`

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM import_log WHERE report_id IN (SELECT id FROM reports WHERE `+ownedReports+`)`,
			id, id); err != nil {
			return fmt.Errorf("failed to delete import log: %w", err)
		}

		var err error
		if reports, err = execCount(ctx, tx, `DELETE FROM reports WHERE `+ownedReports, id, id); err != nil {
			return fmt.Errorf("failed to delete reports: %w", err)
		}
		if employees, err = execCount(ctx, tx,
			`DELETE FROM employees WHERE owner_id = ? OR office_id IN (SELECT id FROM offices WHERE owner_id = ?)`,
			id, id); err != nil {
			return fmt.Errorf("failed to delete employees: %w", err)
		}
		if offices, err = execCount(ctx, tx, `DELETE FROM offices WHERE owner_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete offices: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM owners WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete owner: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.Deletes.WithLabelValues("owner").Inc()
	s.logger.Info("owner deleted",
		zap.String("user_id", userID.String()),
		zap.String("owner_id", ownerID.String()),
		zap.Int64("offices", offices),
		zap.Int64("employees", employees),
		zap.Int64("reports", reports),
	)
	return nil
}

func execCount(ctx context.Context, q querier, query string, args ...any) (int64, error) {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
