// ABOUTME: Tests for home, owner and office summaries
// ABOUTME: Includes the end-to-end hierarchy scenario and tenant isolation
package db

import (
	"context"
	"testing"
	"time"

	"github.com/harperreed/officecrm/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHierarchyScenario(t *testing.T) {
	s, clock := setupTestStore(t)
	ctx := context.Background()
	u1 := mustUser(t, s, "u1")
	u2 := mustUser(t, s, "u2")

	acme := mustOwner(t, s, u1, "Acme")
	suite := mustOffice(t, s, u1, acme.ID, "Suite 200", 7)
	jane := mustEmployee(t, s, u1, suite.ID, "Jane Doe", "jane@acme.test")

	report, err := s.LogReport(ctx, u1, models.ReportInput{
		Target:   models.ReportTarget{Kind: models.TargetEmployee, ID: jane.ID},
		Content:  "On-site walkthrough",
		CallType: models.CallTypeFOV,
		Vibe:     8,
	})
	require.NoError(t, err)

	ownerSummary, err := s.OwnerSummary(ctx, u1, acme.ID)
	require.NoError(t, err)
	require.NotNil(t, ownerSummary.Owner.LastContacted)
	assert.True(t, ownerSummary.Owner.LastContacted.Equal(clock.Now()))
	assert.Equal(t, 1, ownerSummary.FOVCount)
	require.Len(t, ownerSummary.Offices, 1)
	require.Len(t, ownerSummary.RecentReports, 1)
	assert.Equal(t, report.ID, ownerSummary.RecentReports[0].ID)

	officeSummary, err := s.OfficeSummary(ctx, u1, suite.ID)
	require.NoError(t, err)
	require.NotNil(t, officeSummary.AverageVibe)
	assert.InDelta(t, 8.0, *officeSummary.AverageVibe, 0.0001)
	assert.Equal(t, 1, officeSummary.FOVCount)
	require.Len(t, officeSummary.Employees, 1)
	assert.Equal(t, jane.ID, officeSummary.Employees[0].ID)
	require.NotNil(t, officeSummary.Office.LastContacted)

	_, err = s.OwnerSummary(ctx, u2, acme.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.OfficeSummary(ctx, u2, suite.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	home, err := s.HomeSummary(ctx, u2, clock.Now())
	require.NoError(t, err)
	assert.Empty(t, home.Owners)
	assert.Empty(t, home.Offices)
	assert.Empty(t, home.RecentReports)
	w, _ := home.Counts.Window(1)
	assert.Equal(t, 0, w.Reports)
}

func TestHomeSummary(t *testing.T) {
	s, clock := setupTestStore(t)
	ctx := context.Background()
	user := mustUser(t, s, "alice")
	acme := mustOwner(t, s, user, "Acme")
	globex := mustOwner(t, s, user, "Globex")
	mustOffice(t, s, user, acme.ID, "Suite", 1)
	mustOffice(t, s, user, globex.ID, "Annex", 2)

	for i := 0; i < 7; i++ {
		mustReport(t, s, user, models.TargetOwner, acme.ID, models.CallTypePhone,
			clock.Now().Add(-time.Duration(i)*time.Hour))
	}

	home, err := s.HomeSummary(ctx, user, clock.Now())
	require.NoError(t, err)
	require.Len(t, home.RecentReports, models.RecentReportLimit)
	for i := 1; i < len(home.RecentReports); i++ {
		assert.False(t, home.RecentReports[i].CreatedAt.After(home.RecentReports[i-1].CreatedAt),
			"recent reports must be newest first")
	}
	assert.True(t, home.RecentReports[0].CreatedAt.Equal(clock.Now()))
	assert.Len(t, home.Owners, 2)
	assert.Len(t, home.Offices, 2)

	w, ok := home.Counts.Window(1)
	require.True(t, ok)
	assert.Equal(t, 7, w.Reports)
}

func TestOfficeSummaryWithoutReports(t *testing.T) {
	s, _ := setupTestStore(t)
	user := mustUser(t, s, "alice")
	owner := mustOwner(t, s, user, "Acme")
	office := mustOffice(t, s, user, owner.ID, "Suite", 1)

	summary, err := s.OfficeSummary(context.Background(), user, office.ID)
	require.NoError(t, err)
	assert.Nil(t, summary.AverageVibe)
	assert.Equal(t, 0, summary.FOVCount)
	assert.Empty(t, summary.RecentReports)
	assert.Empty(t, summary.Employees)
}

func TestOfficeSummaryIncludesEmployeeReports(t *testing.T) {
	s, _ := setupTestStore(t)
	user := mustUser(t, s, "alice")
	owner := mustOwner(t, s, user, "Acme")
	office := mustOffice(t, s, user, owner.ID, "Suite", 1)
	annex := mustOffice(t, s, user, owner.ID, "Annex", 2)
	emp := mustEmployee(t, s, user, office.ID, "Jane", "")

	mustReport(t, s, user, models.TargetEmployee, emp.ID, models.CallTypeFOV, baseTime)
	mustReport(t, s, user, models.TargetOffice, office.ID, models.CallTypePhone, baseTime)
	mustReport(t, s, user, models.TargetOffice, annex.ID, models.CallTypeFOV, baseTime)

	summary, err := s.OfficeSummary(context.Background(), user, office.ID)
	require.NoError(t, err)
	assert.Len(t, summary.RecentReports, 2)
	assert.Equal(t, 1, summary.FOVCount)
}
