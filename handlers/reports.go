// ABOUTME: Report logging MCP tool handler
// ABOUTME: Implements log_report against an employee, office or owner, and get_report
package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/officecrm/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type LogReportInput struct {
	TargetType string `json:"target_type" jsonschema:"What the report is about: employee, office or owner (required)"`
	TargetID   string `json:"target_id" jsonschema:"UUID of the employee, office or owner (required)"`
	Content    string `json:"content" jsonschema:"What happened (required)"`
	CallType   string `json:"calltype" jsonschema:"Channel: phone, email, fov, teams or other (required)"`
	Subject    string `json:"subject,omitempty" jsonschema:"Short subject line"`
	Vibe       int    `json:"vibe,omitempty" jsonschema:"How it went, 1-10 (default 5)"`
	Transcript bool   `json:"transcript,omitempty" jsonschema:"Whether a transcript exists"`
	OfficeID   string `json:"office_id,omitempty" jsonschema:"Optional office for owner-level reports; ignored unless it belongs to the owner"`
	Date       string `json:"date,omitempty" jsonschema:"When it happened, RFC3339 or YYYY-MM-DD (default now)"`
}

func (h *Handlers) LogReport(ctx context.Context, request *mcp.CallToolRequest, input LogReportInput) (*mcp.CallToolResult, ReportOutput, error) {
	targetID, err := parseID("target_id", input.TargetID)
	if err != nil {
		return nil, ReportOutput{}, err
	}
	calltype, err := models.ParseCallType(input.CallType)
	if err != nil {
		return nil, ReportOutput{}, err
	}

	in := models.ReportInput{
		Target: models.ReportTarget{
			Kind: models.TargetKind(strings.ToLower(strings.TrimSpace(input.TargetType))),
			ID:   targetID,
		},
		Subject:    input.Subject,
		Content:    input.Content,
		CallType:   calltype,
		Vibe:       input.Vibe,
		Transcript: input.Transcript,
	}

	if input.OfficeID != "" {
		officeID, err := parseID("office_id", input.OfficeID)
		if err != nil {
			return nil, ReportOutput{}, err
		}
		in.OfficeID = &officeID
	}

	if input.Date != "" {
		at, err := parseWhen(input.Date)
		if err != nil {
			return nil, ReportOutput{}, err
		}
		in.CreatedAt = &at
	}

	report, err := h.store.LogReport(ctx, h.userID, in)
	if err != nil {
		return nil, ReportOutput{}, fmt.Errorf("failed to log report: %w", err)
	}
	return nil, reportToOutput(report), nil
}

// parseWhen accepts a full timestamp or a bare day.
func parseWhen(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(models.DateLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, fieldError("date", fmt.Sprintf("must be RFC3339 or YYYY-MM-DD (got %q)", s))
}

type GetReportInput struct {
	ReportID string `json:"report_id" jsonschema:"UUID of the report (required)"`
}

func (h *Handlers) GetReport(ctx context.Context, request *mcp.CallToolRequest, input GetReportInput) (*mcp.CallToolResult, ReportOutput, error) {
	reportID, err := parseID("report_id", input.ReportID)
	if err != nil {
		return nil, ReportOutput{}, err
	}
	report, err := h.store.GetReport(ctx, h.userID, reportID)
	if err != nil {
		return nil, ReportOutput{}, fmt.Errorf("failed to get report: %w", err)
	}
	return nil, reportToOutput(report), nil
}
