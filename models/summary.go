// ABOUTME: Aggregate result types for dashboards and the activity matrix
// ABOUTME: Window counts, per-entity summaries, and owner x calltype totals
package models

import (
	"time"

	"github.com/google/uuid"
)

// RecentReportLimit is how many reports the summaries show.
const RecentReportLimit = 5

// TrailingWindows are the lengths, in days, of the overlapping
// activity windows ending at "now".
var TrailingWindows = []int{1, 7, 30, 90, 365}

// WindowCount counts reports created within [Start, End].
type WindowCount struct {
	Days    int       `json:"days"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Reports int       `json:"reports"`
	FOVs    int       `json:"fovs"`
}

type ActivityCounts struct {
	Now       time.Time     `json:"now"`
	Windows   []WindowCount `json:"windows"`
	ThisWeek  WindowCount   `json:"this_week"`
	LastWeek  WindowCount   `json:"last_week"`
	ThisMonth WindowCount   `json:"this_month"`
}

// Window returns the trailing window of the given length.
func (a *ActivityCounts) Window(days int) (WindowCount, bool) {
	for _, w := range a.Windows {
		if w.Days == days {
			return w, true
		}
	}
	return WindowCount{}, false
}

type HomeSummary struct {
	Counts        ActivityCounts `json:"counts"`
	RecentReports []Report       `json:"recent_reports"`
	Owners        []Owner        `json:"owners"`
	Offices       []Office       `json:"offices"`
}

type OwnerSummary struct {
	Owner         Owner    `json:"owner"`
	Offices       []Office `json:"offices"`
	RecentReports []Report `json:"recent_reports"`
	FOVCount      int      `json:"fov_count"`
}

// OfficeSummary reports AverageVibe as nil when the office has no reports.
type OfficeSummary struct {
	Office        Office     `json:"office"`
	Employees     []Employee `json:"employees"`
	RecentReports []Report   `json:"recent_reports"`
	AverageVibe   *float64   `json:"average_vibe,omitempty"`
	FOVCount      int        `json:"fov_count"`
}

// DateRange bounds are inclusive; a nil bound is unbounded.
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// Active reports whether at least one bound is set. Aggregations over
// an inactive range are not computed.
func (r DateRange) Active() bool {
	return r.Start != nil || r.End != nil
}

// Contains reports whether t falls within the range.
func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

type MatrixRow struct {
	OwnerID   uuid.UUID        `json:"owner_id"`
	OwnerName string           `json:"owner_name"`
	Counts    map[CallType]int `json:"counts"`
	Total     int              `json:"total"`
}

// ActivityMatrix is the owner x calltype count table. Every owner of the
// user has a row, even with zero reports.
type ActivityMatrix struct {
	Active       bool             `json:"active"`
	Range        DateRange        `json:"range"`
	CallTypes    []CallType       `json:"calltypes"`
	Rows         []MatrixRow      `json:"rows"`
	ColumnTotals map[CallType]int `json:"column_totals"`
	GrandTotal   int              `json:"grand_total"`
}

// Cell returns the count for one owner and calltype.
func (m *ActivityMatrix) Cell(ownerID uuid.UUID, ct CallType) int {
	for _, row := range m.Rows {
		if row.OwnerID == ownerID {
			return row.Counts[ct]
		}
	}
	return 0
}

// ActivityReport pairs the matrix with the FOV reports in the same range.
type ActivityReport struct {
	Matrix     ActivityMatrix `json:"matrix"`
	FOVReports []Report       `json:"fov_reports"`
}
