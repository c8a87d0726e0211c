// ABOUTME: Dashboard MCP tool handlers
// ABOUTME: Implements home_summary, owner_summary, office_summary and activity_matrix
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/officecrm/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type WindowOutput struct {
	Days    int    `json:"days"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Reports int    `json:"reports"`
	FOVs    int    `json:"fovs"`
}

func windowToOutput(w models.WindowCount) WindowOutput {
	return WindowOutput{
		Days:    w.Days,
		Start:   w.Start.Format(timeLayout),
		End:     w.End.Format(timeLayout),
		Reports: w.Reports,
		FOVs:    w.FOVs,
	}
}

type HomeSummaryInput struct{}

type HomeSummaryOutput struct {
	Windows       []WindowOutput `json:"windows"`
	ThisWeek      WindowOutput   `json:"this_week"`
	LastWeek      WindowOutput   `json:"last_week"`
	ThisMonth     WindowOutput   `json:"this_month"`
	RecentReports []ReportOutput `json:"recent_reports"`
	Owners        []OwnerOutput  `json:"owners"`
	Offices       []OfficeOutput `json:"offices"`
}

func (h *Handlers) HomeSummary(ctx context.Context, request *mcp.CallToolRequest, input HomeSummaryInput) (*mcp.CallToolResult, HomeSummaryOutput, error) {
	summary, err := h.store.HomeSummary(ctx, h.userID, h.store.Now())
	if err != nil {
		return nil, HomeSummaryOutput{}, fmt.Errorf("failed to build home summary: %w", err)
	}
	return nil, homeToOutput(summary), nil
}

func homeToOutput(summary *models.HomeSummary) HomeSummaryOutput {
	out := HomeSummaryOutput{
		Windows:       make([]WindowOutput, len(summary.Counts.Windows)),
		ThisWeek:      windowToOutput(summary.Counts.ThisWeek),
		LastWeek:      windowToOutput(summary.Counts.LastWeek),
		ThisMonth:     windowToOutput(summary.Counts.ThisMonth),
		RecentReports: reportsToOutput(summary.RecentReports),
		Owners:        ownersToOutput(summary.Owners),
		Offices:       officesToOutput(summary.Offices),
	}
	for i, w := range summary.Counts.Windows {
		out.Windows[i] = windowToOutput(w)
	}
	return out
}

type OwnerSummaryInput struct {
	OwnerID string `json:"owner_id" jsonschema:"UUID of the owner (required)"`
}

type OwnerSummaryOutput struct {
	Owner         OwnerOutput    `json:"owner"`
	Offices       []OfficeOutput `json:"offices"`
	RecentReports []ReportOutput `json:"recent_reports"`
	FOVCount      int            `json:"fov_count"`
}

func (h *Handlers) OwnerSummary(ctx context.Context, request *mcp.CallToolRequest, input OwnerSummaryInput) (*mcp.CallToolResult, OwnerSummaryOutput, error) {
	ownerID, err := parseID("owner_id", input.OwnerID)
	if err != nil {
		return nil, OwnerSummaryOutput{}, err
	}

	summary, err := h.store.OwnerSummary(ctx, h.userID, ownerID)
	if err != nil {
		return nil, OwnerSummaryOutput{}, fmt.Errorf("failed to build owner summary: %w", err)
	}
	return nil, OwnerSummaryOutput{
		Owner:         ownerToOutput(&summary.Owner),
		Offices:       officesToOutput(summary.Offices),
		RecentReports: reportsToOutput(summary.RecentReports),
		FOVCount:      summary.FOVCount,
	}, nil
}

type OfficeSummaryInput struct {
	OfficeID string `json:"office_id" jsonschema:"UUID of the office (required)"`
}

type OfficeSummaryOutput struct {
	Office        OfficeOutput     `json:"office"`
	Employees     []EmployeeOutput `json:"employees"`
	RecentReports []ReportOutput   `json:"recent_reports"`
	AverageVibe   *float64         `json:"average_vibe,omitempty"`
	FOVCount      int              `json:"fov_count"`
}

func (h *Handlers) OfficeSummary(ctx context.Context, request *mcp.CallToolRequest, input OfficeSummaryInput) (*mcp.CallToolResult, OfficeSummaryOutput, error) {
	officeID, err := parseID("office_id", input.OfficeID)
	if err != nil {
		return nil, OfficeSummaryOutput{}, err
	}

	summary, err := h.store.OfficeSummary(ctx, h.userID, officeID)
	if err != nil {
		return nil, OfficeSummaryOutput{}, fmt.Errorf("failed to build office summary: %w", err)
	}
	return nil, OfficeSummaryOutput{
		Office:        officeToOutput(&summary.Office),
		Employees:     employeesToOutput(summary.Employees),
		RecentReports: reportsToOutput(summary.RecentReports),
		AverageVibe:   summary.AverageVibe,
		FOVCount:      summary.FOVCount,
	}, nil
}

type ActivityMatrixInput struct {
	Start string `json:"start,omitempty" jsonschema:"First day, YYYY-MM-DD"`
	End   string `json:"end,omitempty" jsonschema:"Last day (inclusive), YYYY-MM-DD"`
}

type MatrixRowOutput struct {
	OwnerID   string         `json:"owner_id"`
	OwnerName string         `json:"owner_name"`
	Counts    map[string]int `json:"counts"`
	Total     int            `json:"total"`
}

type ActivityMatrixOutput struct {
	Active       bool              `json:"active"`
	CallTypes    []string          `json:"calltypes"`
	Rows         []MatrixRowOutput `json:"rows"`
	ColumnTotals map[string]int    `json:"column_totals"`
	GrandTotal   int               `json:"grand_total"`
	FOVReports   []ReportOutput    `json:"fov_reports"`
}

// ActivityMatrix needs at least one of start and end; with neither it
// returns an inactive, empty matrix.
func (h *Handlers) ActivityMatrix(ctx context.Context, request *mcp.CallToolRequest, input ActivityMatrixInput) (*mcp.CallToolResult, ActivityMatrixOutput, error) {
	r, err := models.ParseDateRange(input.Start, input.End)
	if err != nil {
		return nil, ActivityMatrixOutput{}, err
	}

	report, err := h.store.ActivityReport(ctx, h.userID, r)
	if err != nil {
		return nil, ActivityMatrixOutput{}, fmt.Errorf("failed to build activity matrix: %w", err)
	}
	return nil, activityToOutput(report), nil
}

func activityToOutput(report *models.ActivityReport) ActivityMatrixOutput {
	m := report.Matrix
	out := ActivityMatrixOutput{
		Active:       m.Active,
		CallTypes:    make([]string, len(m.CallTypes)),
		Rows:         make([]MatrixRowOutput, len(m.Rows)),
		ColumnTotals: make(map[string]int, len(m.ColumnTotals)),
		GrandTotal:   m.GrandTotal,
		FOVReports:   reportsToOutput(report.FOVReports),
	}
	for i, ct := range m.CallTypes {
		out.CallTypes[i] = string(ct)
	}
	for ct, n := range m.ColumnTotals {
		out.ColumnTotals[string(ct)] = n
	}
	for i, row := range m.Rows {
		counts := make(map[string]int, len(row.Counts))
		for ct, n := range row.Counts {
			counts[string(ct)] = n
		}
		out.Rows[i] = MatrixRowOutput{
			OwnerID:   row.OwnerID.String(),
			OwnerName: row.OwnerName,
			Counts:    counts,
			Total:     row.Total,
		}
	}
	return out
}
