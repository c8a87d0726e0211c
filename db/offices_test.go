// ABOUTME: Tests for office creation and listing
// ABOUTME: Covers number bounds and scoping through the parent owner
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

func TestCreateOfficeNumberBounds(t *testing.T) {
	s, _ := setupTestStore(t)
	user := mustUser(t, s, "alice")
	owner := mustOwner(t, s, user, "Acme")

	for _, number := range []int{0, 101} {
		office := &models.Office{Name: "Bad", Number: number, Address: "a", City: "c", State: "s", ZipCode: "z"}
		err := s.CreateOffice(context.Background(), user, owner.ID, office)
		var verr *models.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("number %d: expected ValidationError, got %v", number, err)
		}
	}
	assert.Equal(t, 0, countRows(t, s, `SELECT COUNT(*) FROM offices`))

	mustOffice(t, s, user, owner.ID, "First", 1)
	mustOffice(t, s, user, owner.ID, "Last", 100)
	assert.Equal(t, 2, countRows(t, s, `SELECT COUNT(*) FROM offices`))
}

func TestCreateOfficeForeignOwner(t *testing.T) {
	s, _ := setupTestStore(t)
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	owner := mustOwner(t, s, alice, "Acme")

	office := &models.Office{Name: "Suite", Number: 1, Address: "a", City: "c", State: "s", ZipCode: "z"}
	err := s.CreateOffice(context.Background(), bob, owner.ID, office)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetOffice(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	owner := mustOwner(t, s, alice, "Acme")
	office := mustOffice(t, s, alice, owner.ID, "Suite 200", 100)

	found, err := s.GetOffice(ctx, alice, office.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, found.OwnerID)
	assert.Equal(t, 100, found.Number)
	assert.Nil(t, found.LastContacted)

	_, err = s.GetOffice(ctx, bob, office.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOffices(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	acme := mustOwner(t, s, alice, "Acme")
	globex := mustOwner(t, s, alice, "Globex")
	mustOffice(t, s, alice, acme.ID, "B Office", 2)
	mustOffice(t, s, alice, acme.ID, "A Office", 1)
	mustOffice(t, s, alice, globex.ID, "C Office", 3)
	bobOwner := mustOwner(t, s, bob, "Initech")
	mustOffice(t, s, bob, bobOwner.ID, "Bob Office", 4)

	all, err := s.ListOffices(ctx, alice)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "A Office", all[0].Name)

	byOwner, err := s.ListOfficesByOwner(ctx, alice, acme.ID)
	require.NoError(t, err)
	assert.Len(t, byOwner, 2)

	_, err = s.ListOfficesByOwner(ctx, bob, acme.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.ListOfficesByOwner(ctx, alice, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	bobs, err := s.ListOfficesByOwner(ctx, bob, bobOwner.ID)
	require.NoError(t, err)
	assert.Len(t, bobs, 1)
}

func TestUpdateOffice(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	user := mustUser(t, s, "alice")
	owner := mustOwner(t, s, user, "Acme")
	other := mustOwner(t, s, user, "Globex")
	office := mustOffice(t, s, user, owner.ID, "Suite 200", 7)
	mustReport(t, s, user, models.TargetOffice, office.ID, models.CallTypeFOV, baseTime)

	edit := *office
	edit.Name = "Suite 300"
	edit.Number = 8
	edit.City = "Shelbyville"
	edit.OwnerID = other.ID
	edit.LastContacted = nil
	require.NoError(t, s.UpdateOffice(ctx, user, &edit))

	assert.Equal(t, owner.ID, edit.OwnerID, "offices never change owner")
	require.NotNil(t, edit.LastContacted)
	assert.True(t, edit.LastContacted.Equal(baseTime))

	found, err := s.GetOffice(ctx, user, office.ID)
	require.NoError(t, err)
	assert.Equal(t, edit, *found)
}

func TestUpdateOfficeNumberBounds(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()
	user := mustUser(t, s, "alice")
	owner := mustOwner(t, s, user, "Acme")
	office := mustOffice(t, s, user, owner.ID, "Suite", 7)

	edit := *office
	edit.Number = 101
	err := s.UpdateOffice(ctx, user, &edit)
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	assert.Equal(t, "number", verr.Fields[0].Field)

	found, err := s.GetOffice(ctx, user, office.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, found.Number)
}

func TestUpdateOfficeForeignIsNotFound(t *testing.T) {
	s, _ := setupTestStore(t)
	alice := mustUser(t, s, "alice")
	bob := mustUser(t, s, "bob")
	owner := mustOwner(t, s, alice, "Acme")
	office := mustOffice(t, s, alice, owner.ID, "Suite", 7)

	edit := *office
	edit.Name = "Hijacked"
	assert.ErrorIs(t, s.UpdateOffice(context.Background(), bob, &edit), ErrNotFound)

	edit.ID = uuid.New()
	assert.ErrorIs(t, s.UpdateOffice(context.Background(), alice, &edit), ErrNotFound)
}
