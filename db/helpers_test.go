package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/officecrm/models"
	"github.com/stretchr/testify/require"
)

// baseTime is a Wednesday.
var baseTime = time.Date(2025, 3, 12, 15, 4, 5, 0, time.UTC)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Set(t time.Time) { c.now = t }

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func setupTestStore(t *testing.T) (*Store, *testClock) {
	t.Helper()
	clock := &testClock{now: baseTime}
	return NewStore(setupTestDB(t), WithClock(clock.Now)), clock
}

func mustUser(t *testing.T, s *Store, name string) uuid.UUID {
	t.Helper()
	user := &models.User{Username: name}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user.ID
}

func mustOwner(t *testing.T, s *Store, userID uuid.UUID, name string) *models.Owner {
	t.Helper()
	owner := &models.Owner{Name: name}
	require.NoError(t, s.CreateOwner(context.Background(), userID, owner))
	return owner
}

func mustOffice(t *testing.T, s *Store, userID, ownerID uuid.UUID, name string, number int) *models.Office {
	t.Helper()
	office := &models.Office{
		Name:    name,
		Number:  number,
		Address: "1 Main St",
		City:    "Springfield",
		State:   "IL",
		ZipCode: "62701",
	}
	require.NoError(t, s.CreateOffice(context.Background(), userID, ownerID, office))
	return office
}

func mustEmployee(t *testing.T, s *Store, userID, officeID uuid.UUID, name, email string) *models.Employee {
	t.Helper()
	emp := &models.Employee{Name: name, Position: "Manager", Email: email}
	require.NoError(t, s.CreateEmployee(context.Background(), userID, officeID, emp))
	return emp
}

func mustReport(t *testing.T, s *Store, userID uuid.UUID, kind models.TargetKind, id uuid.UUID, ct models.CallType, at time.Time) *models.Report {
	t.Helper()
	report, err := s.LogReport(context.Background(), userID, models.ReportInput{
		Target:    models.ReportTarget{Kind: kind, ID: id},
		Content:   "Checked in",
		CallType:  ct,
		CreatedAt: &at,
	})
	require.NoError(t, err)
	return report
}

func countRows(t *testing.T, s *Store, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, s.DB().QueryRow(query, args...).Scan(&n))
	return n
}
