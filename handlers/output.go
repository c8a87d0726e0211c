// ABOUTME: JSON output shapes shared by the MCP tools and resources
// ABOUTME: Identifiers and times are rendered as strings
package handlers

import (
	"time"

	"github.com/harperreed/officecrm/models"
)

const timeLayout = time.RFC3339

type OwnerOutput struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	LastContacted string `json:"last_contacted,omitempty"`
}

type OfficeOutput struct {
	ID            string `json:"id"`
	OwnerID       string `json:"owner_id"`
	Name          string `json:"name"`
	Number        int    `json:"number"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zip_code"`
	LastContacted string `json:"last_contacted,omitempty"`
}

type EmployeeOutput struct {
	ID        string `json:"id"`
	OfficeID  string `json:"office_id"`
	OwnerID   string `json:"owner_id"`
	Name      string `json:"name"`
	Position  string `json:"position"`
	Email     string `json:"email,omitempty"`
	Potential int    `json:"potential"`
}

type ReportOutput struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id,omitempty"`
	OfficeID   string `json:"office_id,omitempty"`
	OwnerID    string `json:"owner_id"`
	Subject    string `json:"subject,omitempty"`
	Content    string `json:"content"`
	CallType   string `json:"calltype"`
	Vibe       int    `json:"vibe"`
	Transcript bool   `json:"transcript"`
	CreatedAt  string `json:"created_at"`
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeLayout)
}

func ownerToOutput(owner *models.Owner) OwnerOutput {
	return OwnerOutput{
		ID:            owner.ID.String(),
		Name:          owner.Name,
		Email:         owner.Email,
		LastContacted: formatOptionalTime(owner.LastContacted),
	}
}

func officeToOutput(office *models.Office) OfficeOutput {
	return OfficeOutput{
		ID:            office.ID.String(),
		OwnerID:       office.OwnerID.String(),
		Name:          office.Name,
		Number:        office.Number,
		Address:       office.Address,
		City:          office.City,
		State:         office.State,
		ZipCode:       office.ZipCode,
		LastContacted: formatOptionalTime(office.LastContacted),
	}
}

func employeeToOutput(emp *models.Employee) EmployeeOutput {
	return EmployeeOutput{
		ID:        emp.ID.String(),
		OfficeID:  emp.OfficeID.String(),
		OwnerID:   emp.OwnerID.String(),
		Name:      emp.Name,
		Position:  emp.Position,
		Email:     emp.Email,
		Potential: emp.Potential,
	}
}

func reportToOutput(report *models.Report) ReportOutput {
	out := ReportOutput{
		ID:         report.ID.String(),
		OwnerID:    report.OwnerID.String(),
		Subject:    report.Subject,
		Content:    report.Content,
		CallType:   string(report.CallType),
		Vibe:       report.Vibe,
		Transcript: report.Transcript,
		CreatedAt:  report.CreatedAt.Format(timeLayout),
	}
	if report.EmployeeID != nil {
		out.EmployeeID = report.EmployeeID.String()
	}
	if report.OfficeID != nil {
		out.OfficeID = report.OfficeID.String()
	}
	return out
}

func ownersToOutput(owners []models.Owner) []OwnerOutput {
	result := make([]OwnerOutput, len(owners))
	for i := range owners {
		result[i] = ownerToOutput(&owners[i])
	}
	return result
}

func officesToOutput(offices []models.Office) []OfficeOutput {
	result := make([]OfficeOutput, len(offices))
	for i := range offices {
		result[i] = officeToOutput(&offices[i])
	}
	return result
}

func employeesToOutput(employees []models.Employee) []EmployeeOutput {
	result := make([]EmployeeOutput, len(employees))
	for i := range employees {
		result[i] = employeeToOutput(&employees[i])
	}
	return result
}

func reportsToOutput(reports []models.Report) []ReportOutput {
	result := make([]ReportOutput, len(reports))
	for i := range reports {
		result[i] = reportToOutput(&reports[i])
	}
	return result
}
