// ABOUTME: Drill-down views for a single owner or office
// ABOUTME: Shows offices or employees, recent reports and vibe
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/officecrm/models"
)

var (
	fieldLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(16)

	fieldValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginTop(1)
)

func (m Model) loadOwnerDetail(owner models.Owner) tea.Cmd {
	return func() tea.Msg {
		summary, err := m.store.OwnerSummary(m.ctx, m.userID, owner.ID)
		if err != nil {
			return errMsg{err}
		}
		return ownerDetailMsg{summary}
	}
}

func (m Model) loadOfficeDetail(office models.Office) tea.Cmd {
	return func() tea.Msg {
		summary, err := m.store.OfficeSummary(m.ctx, m.userID, office.ID)
		if err != nil {
			return errMsg{err}
		}
		return officeDetailMsg{summary}
	}
}

func (m Model) renderDetailView() string {
	var s strings.Builder

	switch {
	case m.officeDetail != nil:
		m.renderOffice(&s, m.officeDetail)
	case m.ownerDetail != nil:
		m.renderOwner(&s, m.ownerDetail)
	}

	s.WriteString("\n" + helpStyle.Render("Esc: Back • q: Quit"))
	return s.String()
}

func (m Model) renderOwner(s *strings.Builder, summary *models.OwnerSummary) {
	o := summary.Owner
	s.WriteString(titleStyle.Render("Owner: "+o.Name) + "\n")
	s.WriteString(renderField("Email", o.Email))
	s.WriteString(renderField("Last Contacted", formatTime(o.LastContacted)))
	s.WriteString(renderField("Field Visits", fmt.Sprint(summary.FOVCount)))

	s.WriteString(sectionStyle.Render("Offices") + "\n")
	if len(summary.Offices) == 0 {
		s.WriteString("  none\n")
	}
	for _, off := range summary.Offices {
		fmt.Fprintf(s, "  #%d %s, %s %s (last contacted %s)\n", off.Number, off.Name, off.City, off.State, formatTime(off.LastContacted))
	}
	renderRecent(s, summary.RecentReports)
}

func (m Model) renderOffice(s *strings.Builder, summary *models.OfficeSummary) {
	o := summary.Office
	s.WriteString(titleStyle.Render(fmt.Sprintf("Office #%d: %s", o.Number, o.Name)) + "\n")
	s.WriteString(renderField("Address", fmt.Sprintf("%s, %s, %s %s", o.Address, o.City, o.State, o.ZipCode)))
	s.WriteString(renderField("Last Contacted", formatTime(o.LastContacted)))
	vibe := "n/a"
	if summary.AverageVibe != nil {
		vibe = fmt.Sprintf("%.1f", *summary.AverageVibe)
	}
	s.WriteString(renderField("Average Vibe", vibe))
	s.WriteString(renderField("Field Visits", fmt.Sprint(summary.FOVCount)))

	s.WriteString(sectionStyle.Render("Employees") + "\n")
	if len(summary.Employees) == 0 {
		s.WriteString("  none\n")
	}
	for _, e := range summary.Employees {
		fmt.Fprintf(s, "  %s, %s (potential %d)\n", e.Name, e.Position, e.Potential)
	}
	renderRecent(s, summary.RecentReports)
}

func renderRecent(s *strings.Builder, reports []models.Report) {
	s.WriteString(sectionStyle.Render("Recent Reports") + "\n")
	if len(reports) == 0 {
		s.WriteString("  none\n")
	}
	for _, r := range reports {
		content := strings.ReplaceAll(r.Content, "\n", " ")
		if len([]rune(content)) > 60 {
			content = string([]rune(content)[:57]) + "..."
		}
		fmt.Fprintf(s, "  %s  %-11s vibe %2d  %s\n", r.CreatedAt.Format("2006-01-02"), r.CallType.Label(), r.Vibe, content)
	}
}

func renderField(label, value string) string {
	if value == "" {
		value = "-"
	}
	return fieldLabelStyle.Render(label+":") + " " + fieldValueStyle.Render(value) + "\n"
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Format("2006-01-02 15:04")
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		m.ownerDetail = nil
		m.officeDetail = nil
	}
	return m, nil
}
