// ABOUTME: Tenant scope filter for every hierarchy lookup
// ABOUTME: Resolves entities only through their root owner's user_id
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/officecrm/models"
)

const ownerColumns = `o.id, o.user_id, o.name, o.email, o.last_contacted`

const officeColumns = `f.id, f.owner_id, f.name, f.number, f.address, f.city, f.state, f.zip_code, f.last_contacted`

const employeeColumns = `e.id, e.office_id, e.owner_id, e.name, e.position, e.email, e.potential`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOwner(row rowScanner) (*models.Owner, error) {
	var owner models.Owner
	var email sql.NullString
	var lastContacted sql.NullInt64
	if err := row.Scan(&owner.ID, &owner.UserID, &owner.Name, &email, &lastContacted); err != nil {
		return nil, err
	}
	owner.Email = email.String
	owner.LastContacted = nullableMillis(lastContacted)
	return &owner, nil
}

func scanOffice(row rowScanner) (*models.Office, error) {
	var office models.Office
	var lastContacted sql.NullInt64
	err := row.Scan(&office.ID, &office.OwnerID, &office.Name, &office.Number,
		&office.Address, &office.City, &office.State, &office.ZipCode, &lastContacted)
	if err != nil {
		return nil, err
	}
	office.LastContacted = nullableMillis(lastContacted)
	return &office, nil
}

func scanEmployee(row rowScanner) (*models.Employee, error) {
	var emp models.Employee
	var email sql.NullString
	err := row.Scan(&emp.ID, &emp.OfficeID, &emp.OwnerID, &emp.Name, &emp.Position, &email, &emp.Potential)
	if err != nil {
		return nil, err
	}
	emp.Email = email.String
	return &emp, nil
}

func scopedOwner(ctx context.Context, q querier, userID, ownerID uuid.UUID) (*models.Owner, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+ownerColumns+`
		FROM owners o
		WHERE o.id = ? AND o.user_id = ?
	`, ownerID.String(), userID.String())

	owner, err := scanOwner(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("owner", ownerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load owner: %w", err)
	}
	return owner, nil
}

func scopedOffice(ctx context.Context, q querier, userID, officeID uuid.UUID) (*models.Office, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+officeColumns+`
		FROM offices f
		JOIN owners o ON o.id = f.owner_id
		WHERE f.id = ? AND o.user_id = ?
	`, officeID.String(), userID.String())

	office, err := scanOffice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("office", officeID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load office: %w", err)
	}
	return office, nil
}

// scopedEmployee resolves the employee through its office, then checks
// the denormalized owner against the office's owner.
func scopedEmployee(ctx context.Context, q querier, userID, employeeID uuid.UUID) (*models.Employee, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+employeeColumns+`, f.owner_id
		FROM employees e
		JOIN offices f ON f.id = e.office_id
		JOIN owners o ON o.id = f.owner_id
		WHERE e.id = ? AND o.user_id = ?
	`, employeeID.String(), userID.String())

	var emp models.Employee
	var email sql.NullString
	var officeOwner uuid.UUID
	err := row.Scan(&emp.ID, &emp.OfficeID, &emp.OwnerID, &emp.Name, &emp.Position,
		&email, &emp.Potential, &officeOwner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("employee", employeeID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load employee: %w", err)
	}
	emp.Email = email.String

	if emp.OwnerID != officeOwner {
		return nil, &IntegrityError{
			Entity: "employee",
			ID:     emp.ID,
			Detail: fmt.Sprintf("owner %s does not match office owner %s", emp.OwnerID, officeOwner),
		}
	}
	return &emp, nil
}

// officeForOwner returns officeID only when it names an office of
// ownerID. Anything else yields nil with no error so the caller can
// carry on without the office.
func officeForOwner(ctx context.Context, q querier, ownerID uuid.UUID, officeID *uuid.UUID) (*uuid.UUID, error) {
	if officeID == nil {
		return nil, nil
	}

	var id uuid.UUID
	err := q.QueryRowContext(ctx,
		`SELECT id FROM offices WHERE id = ? AND owner_id = ?`,
		officeID.String(), ownerID.String(),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check office ownership: %w", err)
	}
	return &id, nil
}
