// ABOUTME: Whole-tenant export and restore
// ABOUTME: Restore re-keys every entity and replays reports to rebuild last-contacted times
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/harperreed/officecrm/models"
	"go.uber.org/zap"
)

// ExportTenant copies the user's hierarchy and reports from one snapshot.
func (s *Store) ExportTenant(ctx context.Context, userID uuid.UUID) (*models.TenantExport, error) {
	export := &models.TenantExport{Version: models.ExportVersion, ExportedAt: s.Now()}
	err := s.withReadTx(ctx, func(tx *sql.Tx) error {
		var username string
		err := tx.QueryRowContext(ctx, `SELECT username FROM users WHERE id = ?`, userID.String()).Scan(&username)
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("user", userID)
		}
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		export.Username = username

		uid := userID.String()
		if export.Owners, err = listOwners(ctx, tx, userID); err != nil {
			return err
		}
		if export.Offices, err = listOffices(ctx, tx, `o.user_id = ?`, uid); err != nil {
			return err
		}
		if export.Employees, err = listEmployees(ctx, tx, `o.user_id = ?`, uid); err != nil {
			return err
		}
		export.Reports, err = listReports(ctx, tx, userID, "", 0)
		return err
	})
	if err != nil {
		return nil, err
	}
	slices.Reverse(export.Reports)
	return export, nil
}

// RestoreTenant recreates export under userID with fresh ids, in a
// single transaction. Existing data of the user is left alone. Reports
// are authored by userID, and last-contacted times are rebuilt from
// them rather than copied.
func (s *Store) RestoreTenant(ctx context.Context, userID uuid.UUID, export *models.TenantExport) (*models.RestoreResult, error) {
	if export.Version != models.ExportVersion {
		return nil, &models.ValidationError{Fields: []models.FieldError{{
			Field:   "version",
			Message: fmt.Sprintf("unsupported export version %d", export.Version),
		}}}
	}

	result := &models.RestoreResult{}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireUser(ctx, tx, userID); err != nil {
			return err
		}

		owners := make(map[uuid.UUID]uuid.UUID, len(export.Owners))
		for _, owner := range export.Owners {
			if err := owner.Validate(); err != nil {
				return err
			}
			id := uuid.New()
			_, err := tx.ExecContext(ctx,
				`INSERT INTO owners (id, user_id, name, email) VALUES (?, ?, ?, ?)`,
				id.String(), userID.String(), owner.Name, nullableString(owner.Email))
			if err != nil {
				return fmt.Errorf("failed to restore owner: %w", err)
			}
			owners[owner.ID] = id
			result.Owners++
		}

		offices := make(map[uuid.UUID]uuid.UUID, len(export.Offices))
		officeOwner := make(map[uuid.UUID]uuid.UUID, len(export.Offices))
		for _, office := range export.Offices {
			if err := office.Validate(); err != nil {
				return err
			}
			ownerID, ok := owners[office.OwnerID]
			if !ok {
				return &IntegrityError{Entity: "office", ID: office.ID, Detail: "owner missing from export"}
			}
			id := uuid.New()
			_, err := tx.ExecContext(ctx, `
				INSERT INTO offices (id, owner_id, name, number, address, city, state, zip_code)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, id.String(), ownerID.String(), office.Name, office.Number,
				office.Address, office.City, office.State, office.ZipCode)
			if err != nil {
				return fmt.Errorf("failed to restore office: %w", err)
			}
			offices[office.ID] = id
			officeOwner[id] = ownerID
			result.Offices++
		}

		employees := make(map[uuid.UUID]uuid.UUID, len(export.Employees))
		for _, emp := range export.Employees {
			emp.ApplyDefaults()
			if err := emp.Validate(); err != nil {
				return err
			}
			officeID, ok := offices[emp.OfficeID]
			if !ok {
				return &IntegrityError{Entity: "employee", ID: emp.ID, Detail: "office missing from export"}
			}
			id := uuid.New()
			_, err := tx.ExecContext(ctx, `
				INSERT INTO employees (id, office_id, owner_id, name, position, email, potential)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, id.String(), officeID.String(), officeOwner[officeID].String(),
				emp.Name, emp.Position, nullableString(emp.Email), emp.Potential)
			if err != nil {
				return fmt.Errorf("failed to restore employee: %w", err)
			}
			employees[emp.ID] = id
			result.Employees++
		}

		for _, report := range export.Reports {
			in, err := restoreInput(report, owners, offices, employees)
			if err != nil {
				return err
			}
			if _, err := s.logReport(ctx, tx, userID, in); err != nil {
				return err
			}
			result.Reports++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tenant restored",
		zap.String("user_id", userID.String()),
		zap.Int("owners", result.Owners),
		zap.Int("offices", result.Offices),
		zap.Int("employees", result.Employees),
		zap.Int("reports", result.Reports),
	)
	return result, nil
}

// restoreInput targets the most specific entity the report still has.
// A report whose employee was deleted replays against its office.
func restoreInput(report models.Report, owners, offices, employees map[uuid.UUID]uuid.UUID) (models.ReportInput, error) {
	createdAt := report.CreatedAt
	in := models.ReportInput{
		Subject:    report.Subject,
		Content:    report.Content,
		CallType:   report.CallType,
		Vibe:       report.Vibe,
		Transcript: report.Transcript,
		CreatedAt:  &createdAt,
	}

	if report.EmployeeID != nil {
		if id, ok := employees[*report.EmployeeID]; ok {
			in.Target = models.ReportTarget{Kind: models.TargetEmployee, ID: id}
			return in, nil
		}
	}
	if report.OfficeID != nil {
		if id, ok := offices[*report.OfficeID]; ok {
			in.Target = models.ReportTarget{Kind: models.TargetOffice, ID: id}
			return in, nil
		}
	}
	id, ok := owners[report.OwnerID]
	if !ok {
		return in, &IntegrityError{Entity: "report", ID: report.ID, Detail: "owner missing from export"}
	}
	in.Target = models.ReportTarget{Kind: models.TargetOwner, ID: id}
	return in, nil
}
