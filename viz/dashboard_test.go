// ABOUTME: Tests for terminal dashboard rendering
// ABOUTME: Checks headings, counts and matrix layout in the ASCII output
package viz

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/officecrm/models"
	"github.com/stretchr/testify/assert"
)

func TestRenderHome(t *testing.T) {
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-time.Hour)
	summary := &models.HomeSummary{
		Counts: models.ActivityCounts{
			Now: now,
			Windows: []models.WindowCount{
				{Days: 1, Reports: 2, FOVs: 1},
				{Days: 7, Reports: 4, FOVs: 1},
			},
			ThisWeek:  models.WindowCount{Reports: 3, FOVs: 1},
			ThisMonth: models.WindowCount{Reports: 11, FOVs: 4},
		},
		Owners: []models.Owner{
			{Name: "Acme", LastContacted: &recent},
			{Name: "Globex"},
		},
		RecentReports: []models.Report{
			{Subject: "Site walk", CallType: models.CallTypeFOV, Vibe: 8, CreatedAt: recent},
		},
	}

	out := RenderHome(summary)
	assert.Contains(t, out, "OFFICE CRM DASHBOARD")
	assert.Contains(t, out, "24 hours")
	assert.Contains(t, out, "██████████", "largest window gets a full bar")
	assert.Contains(t, out, "2 owners")
	assert.Contains(t, out, "this month  11 reports    4 visits")
	assert.Contains(t, out, "1 owners - no contact in 30+ days")
	assert.Contains(t, out, "Field Visit")
	assert.Contains(t, out, "Site walk")
}

func TestRenderActivityInactive(t *testing.T) {
	out := RenderActivity(&models.ActivityReport{})
	assert.Contains(t, out, "Choose a start or end date")
	assert.NotContains(t, out, "FIELD VISITS")
}

func TestRenderActivityMatrix(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	acme := uuid.New()
	report := &models.ActivityReport{
		Matrix: models.ActivityMatrix{
			Active:    true,
			Range:     models.DateRange{Start: &start},
			CallTypes: models.CallTypes,
			Rows: []models.MatrixRow{
				{OwnerID: acme, OwnerName: "Acme Holdings", Counts: map[models.CallType]int{models.CallTypePhone: 2, models.CallTypeFOV: 1}, Total: 3},
				{OwnerID: uuid.New(), OwnerName: "Zenith", Counts: map[models.CallType]int{}, Total: 0},
			},
			ColumnTotals: map[models.CallType]int{models.CallTypePhone: 2, models.CallTypeFOV: 1},
			GrandTotal:   3,
		},
	}

	out := RenderActivity(report)
	assert.Contains(t, out, "2025-03-01 → now")

	lines := strings.Split(out, "\n")
	var header, acmeLine, totalLine string
	for _, line := range lines {
		switch {
		case strings.Contains(line, "Owner") && strings.Contains(line, "phone"):
			header = line
		case strings.Contains(line, "Acme Holdings"):
			acmeLine = line
		case strings.HasPrefix(strings.TrimSpace(line), "Total"):
			totalLine = line
		}
	}
	assert.NotEmpty(t, header)
	assert.Equal(t, []string{"Acme", "Holdings", "2", "0", "1", "0", "0", "3"}, strings.Fields(acmeLine))
	assert.Equal(t, []string{"Total", "2", "0", "1", "0", "0", "3"}, strings.Fields(totalLine))
	assert.Contains(t, out, "(none)", "no field visits listed")
}

func TestRenderOfficeSummaryWithoutVibe(t *testing.T) {
	out := RenderOfficeSummary(&models.OfficeSummary{
		Office: models.Office{Name: "Suite 200", Number: 7, City: "Springfield", State: "IL"},
	})
	assert.Contains(t, out, "SUITE 200 (#7)")
	assert.Contains(t, out, "average vibe    n/a")
	assert.Contains(t, out, "last contacted  never")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "a b", truncate("a\n  b", 10))
}
