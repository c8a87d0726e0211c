package charm

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/officecrm/db"
	"github.com/harperreed/officecrm/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T, now *time.Time) (*db.Store, uuid.UUID) {
	t.Helper()
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	store := db.NewStore(database, db.WithClock(func() time.Time { return *now }))
	user := &models.User{Username: "alice"}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return store, user.ID
}

func seedTenant(t *testing.T, store *db.Store, userID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	owner := &models.Owner{Name: "Acme"}
	require.NoError(t, store.CreateOwner(ctx, userID, owner))
	office := &models.Office{Name: "Suite 200", Number: 7, Address: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701"}
	require.NoError(t, store.CreateOffice(ctx, userID, owner.ID, office))
	emp := &models.Employee{Name: "Jane Doe", Position: "Manager"}
	require.NoError(t, store.CreateEmployee(ctx, userID, office.ID, emp))
	_, err := store.LogReport(ctx, userID, models.ReportInput{
		Target:   models.ReportTarget{Kind: models.TargetEmployee, ID: emp.ID},
		Content:  "Walked the floor",
		CallType: models.CallTypeFOV,
	})
	require.NoError(t, err)
}

func TestBackupAndList(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	store, user := setupStore(t, &now)
	seedTenant(t, store, user)
	c := NewTestClient(t)
	ctx := context.Background()

	first, export, err := Backup(ctx, c, store, user)
	require.NoError(t, err)
	assert.Len(t, export.Reports, 1)

	now = now.Add(time.Hour)
	second, _, err := Backup(ctx, c, store, user)
	require.NoError(t, err)
	assert.NotEqual(t, first.Key, second.Key)

	snapshots, err := ListSnapshots(c, user)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, second.Key, snapshots[0].Key, "newest first")
	assert.True(t, snapshots[0].TakenAt.Equal(now))

	other, err := ListSnapshots(c, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestRestoreNewestSnapshot(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	source, user := setupStore(t, &now)
	seedTenant(t, source, user)
	c := NewTestClient(t)
	ctx := context.Background()

	_, _, err := Backup(ctx, c, source, user)
	require.NoError(t, err)

	target, targetUser := setupStore(t, &now)
	// Snapshots are looked up by the acting user's prefix.
	_, err = Restore(ctx, c, target, targetUser, "")
	require.Error(t, err)

	result, err := Restore(ctx, c, source, user, "")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Reports)

	owners, err := source.ListOwners(ctx, user)
	require.NoError(t, err)
	assert.Len(t, owners, 2)
}

func TestLoadSnapshotRejectsForeignKey(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	store, user := setupStore(t, &now)
	c := NewTestClient(t)

	info, _, err := Backup(context.Background(), c, store, user)
	require.NoError(t, err)

	_, err = LoadSnapshot(c, uuid.New(), info.Key)
	require.Error(t, err)
}

func TestPrune(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	store, user := setupStore(t, &now)
	c := NewTestClient(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, _, err := Backup(ctx, c, store, user)
		require.NoError(t, err)
		now = now.Add(time.Minute)
	}

	removed, err := Prune(c, user, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	snapshots, err := ListSnapshots(c, user)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.True(t, snapshots[1].TakenAt.Equal(now.Add(-2*time.Minute)))
}

func TestBackupCommands(t *testing.T) {
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	store, user := setupStore(t, &now)
	seedTenant(t, store, user)
	c := NewTestClient(t)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, BackupCommand(ctx, c, store, user, nil, &out))
	assert.Contains(t, out.String(), "1 owners, 1 offices, 1 employees, 1 reports")

	out.Reset()
	require.NoError(t, ListCommand(c, user, nil, &out))
	assert.Contains(t, out.String(), "2025-03-12 15:00:00")

	out.Reset()
	require.NoError(t, RestoreCommand(ctx, c, store, user, nil, &out))
	assert.Contains(t, out.String(), "--confirm")

	out.Reset()
	require.NoError(t, StatusCommand(c, user, &out))
	assert.Contains(t, out.String(), "Snapshots: 1")

	out.Reset()
	require.NoError(t, WipeCommand(c, []string{"--confirm"}, &out))
	snapshots, err := ListSnapshots(c, user)
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}
