// ABOUTME: Office operations
// ABOUTME: Offices belong to exactly one owner and carry their own last-contacted time
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/officecrm/models"
)

func (s *Store) CreateOffice(ctx context.Context, userID, ownerID uuid.UUID, office *models.Office) error {
	office.Name = strings.TrimSpace(office.Name)
	office.Address = strings.TrimSpace(office.Address)
	office.City = strings.TrimSpace(office.City)
	office.State = strings.TrimSpace(office.State)
	office.ZipCode = strings.TrimSpace(office.ZipCode)
	if err := office.Validate(); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := scopedOwner(ctx, tx, userID, ownerID); err != nil {
			return err
		}

		office.ID = uuid.New()
		office.OwnerID = ownerID
		office.LastContacted = nil

		_, err := tx.ExecContext(ctx, `
			INSERT INTO offices (id, owner_id, name, number, address, city, state, zip_code)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, office.ID.String(), ownerID.String(), office.Name, office.Number,
			office.Address, office.City, office.State, office.ZipCode)
		if err != nil {
			return fmt.Errorf("failed to create office: %w", err)
		}
		return nil
	})
}

func (s *Store) GetOffice(ctx context.Context, userID, officeID uuid.UUID) (*models.Office, error) {
	return scopedOffice(ctx, s.db, userID, officeID)
}

// UpdateOffice saves the editable fields of office.ID. An office never
// moves between owners, so OwnerID and LastContacted come from the
// stored row.
func (s *Store) UpdateOffice(ctx context.Context, userID uuid.UUID, office *models.Office) error {
	office.Name = strings.TrimSpace(office.Name)
	office.Address = strings.TrimSpace(office.Address)
	office.City = strings.TrimSpace(office.City)
	office.State = strings.TrimSpace(office.State)
	office.ZipCode = strings.TrimSpace(office.ZipCode)
	if err := office.Validate(); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := scopedOffice(ctx, tx, userID, office.ID)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE offices
			SET name = ?, number = ?, address = ?, city = ?, state = ?, zip_code = ?
			WHERE id = ?
		`, office.Name, office.Number, office.Address, office.City, office.State, office.ZipCode,
			office.ID.String())
		if err != nil {
			return fmt.Errorf("failed to update office: %w", err)
		}
		office.OwnerID = existing.OwnerID
		office.LastContacted = existing.LastContacted
		return nil
	})
}

// ListOffices returns every office of every owner of the user.
func (s *Store) ListOffices(ctx context.Context, userID uuid.UUID) ([]models.Office, error) {
	return listOffices(ctx, s.db, `o.user_id = ?`, userID.String())
}

func (s *Store) ListOfficesByOwner(ctx context.Context, userID, ownerID uuid.UUID) ([]models.Office, error) {
	var offices []models.Office
	err := s.withReadTx(ctx, func(tx *sql.Tx) error {
		if _, err := scopedOwner(ctx, tx, userID, ownerID); err != nil {
			return err
		}
		var err error
		offices, err = listOffices(ctx, tx, `o.user_id = ? AND f.owner_id = ?`, userID.String(), ownerID.String())
		return err
	})
	return offices, err
}

func listOffices(ctx context.Context, q querier, where string, args ...any) ([]models.Office, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+officeColumns+`
		FROM offices f
		JOIN owners o ON o.id = f.owner_id
		WHERE `+where+`
		ORDER BY f.name COLLATE NOCASE, f.number, f.id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list offices: %w", err)
	}
	defer rows.Close()

	offices := []models.Office{}
	for rows.Next() {
		office, err := scanOffice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan office: %w", err)
		}
		offices = append(offices, *office)
	}
	return offices, rows.Err()
}
