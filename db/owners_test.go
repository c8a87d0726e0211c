// ABOUTME: Tests for owner creation, listing and the cascading delete
// ABOUTME: Verifies tenant isolation and that no orphan rows survive a delete
package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/officecrm/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOwner(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	user := mustUser(t, s, "alice")

	owner := &models.Owner{Name: "  Acme Corp ", Email: "ops@acme.test", UserID: uuid.New()}
	require.NoError(t, s.CreateOwner(ctx, user, owner))

	assert.NotEqual(t, uuid.Nil, owner.ID)
	assert.Equal(t, user, owner.UserID, "user id must come from the acting user")
	assert.Equal(t, "Acme Corp", owner.Name)
	assert.Nil(t, owner.LastContacted)

	found, err := s.GetOwner(ctx, user, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.Name, found.Name)
	assert.Equal(t, "ops@acme.test", found.Email)
}

func TestCreateOwnerValidation(t *testing.T) {
	s, _ := setupTestStore(t)
	user := mustUser(t, s, "alice")

	err := s.CreateOwner(context.Background(), user, &models.Owner{Name: "   "})
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	assert.Equal(t, "name", verr.Fields[0].Field)
	assert.Equal(t, 0, countRows(t, s, `SELECT COUNT(*) FROM owners`))
}

func TestCreateOwnerUnknownUser(t *testing.T) {
	s, _ := setupTestStore(t)

	err := s.CreateOwner(context.Background(), uuid.New(), &models.Owner{Name: "Acme"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOwnersIsTenantScoped(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")

	mustOwner(t, s, alice, "zeta Holdings")
	mustOwner(t, s, alice, "Acme")
	mustOwner(t, s, bob, "Bob's Owner")

	owners, err := s.ListOwners(ctx, alice)
	require.NoError(t, err)
	require.Len(t, owners, 2)
	assert.Equal(t, "Acme", owners[0].Name)
	assert.Equal(t, "zeta Holdings", owners[1].Name)

	owners, err = s.ListOwners(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, owners)
}

func TestGetOwnerForeignIsNotFound(t *testing.T) {
	s, _ := setupTestStore(t)
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	owner := mustOwner(t, s, alice, "Acme")

	_, err := s.GetOwner(context.Background(), bob, owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetOwner(context.Background(), alice, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateOwner(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	user := mustUser(t, s, "alice")
	owner := mustOwner(t, s, user, "Acme")
	mustReport(t, s, user, models.TargetOwner, owner.ID, models.CallTypePhone, baseTime)

	edit := &models.Owner{ID: owner.ID, Name: "  Acme Holdings ", Email: "ops@acme.test"}
	require.NoError(t, s.UpdateOwner(ctx, user, edit))
	assert.Equal(t, "Acme Holdings", edit.Name)
	assert.Equal(t, user, edit.UserID)
	require.NotNil(t, edit.LastContacted, "last contacted is kept")
	assert.True(t, edit.LastContacted.Equal(baseTime))

	found, err := s.GetOwner(ctx, user, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, *edit, *found)
}

func TestUpdateOwnerValidationLeavesRow(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	user := mustUser(t, s, "alice")
	owner := mustOwner(t, s, user, "Acme")

	err := s.UpdateOwner(ctx, user, &models.Owner{ID: owner.ID, Name: " "})
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)

	found, err := s.GetOwner(ctx, user, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", found.Name)
}

func TestUpdateOwnerForeignIsNotFound(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	owner := mustOwner(t, s, alice, "Acme")

	err := s.UpdateOwner(ctx, bob, &models.Owner{ID: owner.ID, Name: "Hijacked"})
	assert.ErrorIs(t, err, ErrNotFound)

	found, err := s.GetOwner(ctx, alice, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", found.Name)
}

// seedSubtree builds owner -> 2 offices -> employee -> reports at every level.
func seedSubtree(t *testing.T, s *Store, user uuid.UUID, name string) *models.Owner {
	t.Helper()
	owner := mustOwner(t, s, user, name)
	office1 := mustOffice(t, s, user, owner.ID, name+" HQ", 1)
	office2 := mustOffice(t, s, user, owner.ID, name+" Annex", 2)
	emp := mustEmployee(t, s, user, office1.ID, "Jane Doe", "")
	mustEmployee(t, s, user, office2.ID, "John Roe", "")

	mustReport(t, s, user, models.TargetEmployee, emp.ID, models.CallTypeFOV, baseTime)
	mustReport(t, s, user, models.TargetOffice, office2.ID, models.CallTypePhone, baseTime)
	mustReport(t, s, user, models.TargetOwner, owner.ID, models.CallTypeEmail, baseTime)
	return owner
}

func TestDeleteOwnerCascades(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	user := mustUser(t, s, "alice")

	doomed := seedSubtree(t, s, user, "Acme")
	kept := seedSubtree(t, s, user, "Globex")

	require.NoError(t, s.DeleteOwner(ctx, user, doomed.ID))

	_, err := s.GetOwner(ctx, user, doomed.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	id := doomed.ID.String()
	assert.Equal(t, 0, countRows(t, s, `SELECT COUNT(*) FROM offices WHERE owner_id = ?`, id))
	assert.Equal(t, 0, countRows(t, s, `SELECT COUNT(*) FROM employees WHERE owner_id = ?`, id))
	assert.Equal(t, 0, countRows(t, s, `SELECT COUNT(*) FROM reports WHERE owner_id = ?`, id))

	k := kept.ID.String()
	assert.Equal(t, 2, countRows(t, s, `SELECT COUNT(*) FROM offices WHERE owner_id = ?`, k))
	assert.Equal(t, 2, countRows(t, s, `SELECT COUNT(*) FROM employees WHERE owner_id = ?`, k))
	assert.Equal(t, 3, countRows(t, s, `SELECT COUNT(*) FROM reports WHERE owner_id = ?`, k))
}

func TestDeleteOwnerWithoutForeignKeyEnforcement(t *testing.T) {
	s, _ := setupTestStore(t)
	user := mustUser(t, s, "alice")
	owner := seedSubtree(t, s, user, "Acme")

	_, err := s.DB().Exec(`PRAGMA foreign_keys = OFF`)
	require.NoError(t, err)

	require.NoError(t, s.DeleteOwner(context.Background(), user, owner.ID))

	assert.Equal(t, 0, countRows(t, s, `SELECT COUNT(*) FROM offices`))
	assert.Equal(t, 0, countRows(t, s, `SELECT COUNT(*) FROM employees`))
	assert.Equal(t, 0, countRows(t, s, `SELECT COUNT(*) FROM reports`))
}

func TestDeleteOwnerForeignIsNotFound(t *testing.T) {
	s, _ := setupTestStore(t)
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	owner := seedSubtree(t, s, alice, "Acme")

	err := s.DeleteOwner(context.Background(), bob, owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 3, countRows(t, s, `SELECT COUNT(*) FROM reports`), "nothing may be deleted")
}

func TestDeleteOwnerCancelledContext(t *testing.T) {
	s, _ := setupTestStore(t)
	user := mustUser(t, s, "alice")
	owner := seedSubtree(t, s, user, "Acme")

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	assert.Error(t, s.DeleteOwner(ctx, user, owner.ID))
	assert.Equal(t, 1, countRows(t, s, `SELECT COUNT(*) FROM owners`))
}
