// ABOUTME: Employee operations
// ABOUTME: Owner is always derived from the office; deletes keep reports and null their link
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

func (s *Store) CreateEmployee(ctx context.Context, userID, officeID uuid.UUID, emp *models.Employee) error {
	emp.Name = strings.TrimSpace(emp.Name)
	emp.Position = strings.TrimSpace(emp.Position)
	emp.Email = strings.TrimSpace(emp.Email)
	emp.ApplyDefaults()
	if err := emp.Validate(); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		office, err := scopedOffice(ctx, tx, userID, officeID)
		if err != nil {
			return err
		}

		emp.ID = uuid.New()
		emp.OfficeID = office.ID
		emp.OwnerID = office.OwnerID

		_, err = tx.ExecContext(ctx, `
			INSERT INTO employees (id, office_id, owner_id, name, position, email, potential)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, emp.ID.String(), emp.OfficeID.String(), emp.OwnerID.String(),
			emp.Name, emp.Position, nullableString(emp.Email), emp.Potential)
		if err != nil {
			return fmt.Errorf("failed to create employee: %w", err)
		}
		return nil
	})
}

func (s *Store) GetEmployee(ctx context.Context, userID, employeeID uuid.UUID) (*models.Employee, error) {
	var emp *models.Employee
	err := s.withReadTx(ctx, func(tx *sql.Tx) error {
		var err error
		emp, err = scopedEmployee(ctx, tx, userID, employeeID)
		return err
	})
	return emp, err
}

// UpdateEmployee saves the editable fields of emp.ID. The office and
// owner links are reloaded and never change.
func (s *Store) UpdateEmployee(ctx context.Context, userID uuid.UUID, emp *models.Employee) error {
	emp.Name = strings.TrimSpace(emp.Name)
	emp.Position = strings.TrimSpace(emp.Position)
	emp.Email = strings.TrimSpace(emp.Email)
	emp.ApplyDefaults()
	if err := emp.Validate(); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := scopedEmployee(ctx, tx, userID, emp.ID)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE employees SET name = ?, position = ?, email = ?, potential = ? WHERE id = ?`,
			emp.Name, emp.Position, nullableString(emp.Email), emp.Potential, emp.ID.String())
		if err != nil {
			return fmt.Errorf("failed to update employee: %w", err)
		}
		emp.OfficeID = existing.OfficeID
		emp.OwnerID = existing.OwnerID
		return nil
	})
}

func (s *Store) ListEmployeesByOffice(ctx context.Context, userID, officeID uuid.UUID) ([]models.Employee, error) {
	var employees []models.Employee
	err := s.withReadTx(ctx, func(tx *sql.Tx) error {
		if _, err := scopedOffice(ctx, tx, userID, officeID); err != nil {
			return err
		}
		var err error
		employees, err = listEmployees(ctx, tx, `o.user_id = ? AND e.office_id = ?`, userID.String(), officeID.String())
		return err
	})
	return employees, err
}

// FindEmployeeByEmail matches case-insensitively across all of the
// user's offices.
func (s *Store) FindEmployeeByEmail(ctx context.Context, userID uuid.UUID, email string) ([]models.Employee, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return []models.Employee{}, nil
	}
	return listEmployees(ctx, s.db, `o.user_id = ? AND e.email = ? COLLATE NOCASE`, userID.String(), email)
}

func listEmployees(ctx context.Context, q querier, where string, args ...any) ([]models.Employee, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+employeeColumns+`
		FROM employees e
		JOIN offices f ON f.id = e.office_id
		JOIN owners o ON o.id = f.owner_id
		WHERE `+where+`
		ORDER BY e.name COLLATE NOCASE, e.id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := []models.Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, *emp)
	}
	return employees, rows.Err()
}

// DeleteEmployee removes the employee. Its reports survive and stay
// attached to the office and owner.
func (s *Store) DeleteEmployee(ctx context.Context, userID, employeeID uuid.UUID) error {
	var detached int64

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := scopedEmployee(ctx, tx, userID, employeeID); err != nil {
			return err
		}

		var err error
		detached, err = execCount(ctx, tx,
			`UPDATE reports SET employee_id = NULL WHERE employee_id = ?`, employeeID.String())
		if err != nil {
			return fmt.Errorf("failed to detach reports: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, employeeID.String()); err != nil {
			return fmt.Errorf("failed to delete employee: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.Deletes.WithLabelValues("employee").Inc()
	s.logger.Info("employee deleted",
		zap.String("user_id", userID.String()),
		zap.String("employee_id", employeeID.String()),
		zap.Int64("reports_detached", detached),
	)
	return nil
}
