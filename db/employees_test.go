// ABOUTME: Tests for employee creation, lookup and deletion
// ABOUTME: Verifies derived owner ids and that deleting an employee keeps its reports
package db

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/harperreed/officecrm/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEmployeeDerivesOwner(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	user := mustUser(t, s, "alice")
	acme := mustOwner(t, s, user, "Acme")
	globex := mustOwner(t, s, user, "Globex")
	office := mustOffice(t, s, user, acme.ID, "Suite 200", 20)

	emp := &models.Employee{Name: "Jane Doe", Position: "Manager", OwnerID: globex.ID}
	require.NoError(t, s.CreateEmployee(ctx, user, office.ID, emp))

	assert.Equal(t, acme.ID, emp.OwnerID, "owner must be derived from the office")
	assert.Equal(t, office.ID, emp.OfficeID)
	assert.Equal(t, models.DefaultPotential, emp.Potential)

	found, err := s.GetEmployee(ctx, user, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, acme.ID, found.OwnerID)
}

func TestCreateEmployeeValidation(t *testing.T) {
	s, _ := setupTestStore(t)
	user := mustUser(t, s, "alice")
	owner := mustOwner(t, s, user, "Acme")
	office := mustOffice(t, s, user, owner.ID, "Suite", 1)

	err := s.CreateEmployee(context.Background(), user, office.ID,
		&models.Employee{Name: "Jane", Position: "Manager", Potential: 11})
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	assert.Equal(t, "potential", verr.Fields[0].Field)
}

func TestCreateEmployeeForeignOffice(t *testing.T) {
	s, _ := setupTestStore(t)
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	owner := mustOwner(t, s, alice, "Acme")
	office := mustOffice(t, s, alice, owner.ID, "Suite", 1)

	err := s.CreateEmployee(context.Background(), bob, office.ID,
		&models.Employee{Name: "Mallory", Position: "Spy"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, countRows(t, s, `SELECT COUNT(*) FROM employees`))
}

func TestDeleteEmployeeKeepsReports(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	user := mustUser(t, s, "alice")
	owner := mustOwner(t, s, user, "Acme")
	office := mustOffice(t, s, user, owner.ID, "Suite", 1)
	emp := mustEmployee(t, s, user, office.ID, "Jane Doe", "")

	r1 := mustReport(t, s, user, models.TargetEmployee, emp.ID, models.CallTypeFOV, baseTime)
	r2 := mustReport(t, s, user, models.TargetEmployee, emp.ID, models.CallTypePhone, baseTime)

	require.NoError(t, s.DeleteEmployee(ctx, user, emp.ID))

	_, err := s.GetEmployee(ctx, user, emp.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	for _, id := range []uuid.UUID{r1.ID, r2.ID} {
		report, err := s.GetReport(ctx, user, id)
		require.NoError(t, err)
		assert.Nil(t, report.EmployeeID)
		require.NotNil(t, report.OfficeID)
		assert.Equal(t, office.ID, *report.OfficeID)
		assert.Equal(t, owner.ID, report.OwnerID)
	}

	matrix, err := s.ActivityMatrix(ctx, user, models.DateRange{Start: &baseTime})
	require.NoError(t, err)
	assert.Equal(t, 2, matrix.GrandTotal, "detached reports still count")
}

func TestDeleteEmployeeForeignIsNotFound(t *testing.T) {
	s, _ := setupTestStore(t)
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	owner := mustOwner(t, s, alice, "Acme")
	office := mustOffice(t, s, alice, owner.ID, "Suite", 1)
	emp := mustEmployee(t, s, alice, office.ID, "Jane Doe", "")

	assert.ErrorIs(t, s.DeleteEmployee(context.Background(), bob, emp.ID), ErrNotFound)
	assert.Equal(t, 1, countRows(t, s, `SELECT COUNT(*) FROM employees`))
}

func TestUpdateEmployee(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	user := mustUser(t, s, "alice")
	owner := mustOwner(t, s, user, "Acme")
	office := mustOffice(t, s, user, owner.ID, "Suite", 1)
	elsewhere := mustOffice(t, s, user, owner.ID, "Annex", 2)
	emp := mustEmployee(t, s, user, office.ID, "Jane Doe", "jane@acme.test")

	edit := &models.Employee{
		ID:       emp.ID,
		OfficeID: elsewhere.ID,
		Name:     "Jane Smith",
		Position: " Director ",
		Email:    "jane.smith@acme.test",
	}
	require.NoError(t, s.UpdateEmployee(ctx, user, edit))
	assert.Equal(t, office.ID, edit.OfficeID, "employees stay in their office")
	assert.Equal(t, owner.ID, edit.OwnerID)
	assert.Equal(t, "Director", edit.Position)
	assert.Equal(t, models.DefaultPotential, edit.Potential)

	found, err := s.GetEmployee(ctx, user, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, *edit, *found)

	matches, err := s.FindEmployeeByEmail(ctx, user, "JANE.SMITH@acme.test")
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestUpdateEmployeeValidationAndScope(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	owner := mustOwner(t, s, alice, "Acme")
	office := mustOffice(t, s, alice, owner.ID, "Suite", 1)
	emp := mustEmployee(t, s, alice, office.ID, "Jane Doe", "")

	err := s.UpdateEmployee(ctx, alice, &models.Employee{ID: emp.ID, Name: "Jane", Position: "Lead", Potential: 11})
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	assert.Equal(t, "potential", verr.Fields[0].Field)

	err = s.UpdateEmployee(ctx, bob, &models.Employee{ID: emp.ID, Name: "Jane", Position: "Lead"})
	assert.ErrorIs(t, err, ErrNotFound)

	found, err := s.GetEmployee(ctx, alice, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", found.Name)
}

func TestFindEmployeeByEmail(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	owner := mustOwner(t, s, alice, "Acme")
	office := mustOffice(t, s, alice, owner.ID, "Suite", 1)
	mustEmployee(t, s, alice, office.ID, "Jane Doe", "jane@acme.test")

	found, err := s.FindEmployeeByEmail(ctx, alice, "JANE@acme.test")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Jane Doe", found[0].Name)

	found, err = s.FindEmployeeByEmail(ctx, bob, "jane@acme.test")
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = s.FindEmployeeByEmail(ctx, alice, "")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestListEmployeesByOffice(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	user := mustUser(t, s, "alice")
	owner := mustOwner(t, s, user, "Acme")
	office := mustOffice(t, s, user, owner.ID, "Suite", 1)
	other := mustOffice(t, s, user, owner.ID, "Annex", 2)
	mustEmployee(t, s, user, office.ID, "Zed", "")
	mustEmployee(t, s, user, office.ID, "Amy", "")
	mustEmployee(t, s, user, other.ID, "Bob", "")

	employees, err := s.ListEmployeesByOffice(ctx, user, office.ID)
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, "Amy", employees[0].Name)
}

func TestEmployeeOwnerMismatchIsIntegrityError(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	user := mustUser(t, s, "alice")
	acme := mustOwner(t, s, user, "Acme")
	globex := mustOwner(t, s, user, "Globex")
	office := mustOffice(t, s, user, acme.ID, "Suite", 1)
	emp := mustEmployee(t, s, user, office.ID, "Jane Doe", "")

	_, err := s.DB().Exec(`UPDATE employees SET owner_id = ? WHERE id = ?`, globex.ID.String(), emp.ID.String())
	require.NoError(t, err)

	_, err = s.LogReport(ctx, user, models.ReportInput{
		Target:   models.ReportTarget{Kind: models.TargetEmployee, ID: emp.ID},
		Content:  "call",
		CallType: models.CallTypePhone,
	})
	var integrity *IntegrityError
	require.True(t, errors.As(err, &integrity), "expected IntegrityError, got %v", err)
	assert.Equal(t, "employee", integrity.Entity)
	assert.Equal(t, 0, countRows(t, s, `SELECT COUNT(*) FROM reports`))

	owner, err := s.GetOwner(ctx, user, acme.ID)
	require.NoError(t, err)
	assert.Nil(t, owner.LastContacted, "aborted transaction must not propagate")
}
