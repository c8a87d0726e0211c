// ABOUTME: Tabbed list view for owners, offices and the activity matrix
// ABOUTME: Handles tab switching, row navigation and drill-down keys
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/officecrm/models"
)

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Office CRM") + "\n")
	s.WriteString(m.renderTabs() + "\n\n")

	if m.err != nil {
		s.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
	}
	if m.home == nil {
		s.WriteString("Loading...\n")
		return s.String()
	}

	s.WriteString(m.renderCounts() + "\n\n")

	switch m.tab {
	case TabOwners:
		s.WriteString(m.renderOwnersTable())
	case TabOffices:
		s.WriteString(m.renderOfficesTable())
	case TabActivity:
		s.WriteString(m.renderActivityTable())
	}

	if m.statusMessage != "" {
		s.WriteString("\n" + statusStyle.Render(m.statusMessage))
	}
	s.WriteString("\n" + helpStyle.Render("Tab: Switch • ↑/↓: Navigate • Enter: View • e: Edit • g: Graph • d: Delete owner • r: Refresh • q: Quit"))
	return s.String()
}

func (m Model) renderTabs() string {
	var tabs []string
	for i, name := range tabNames {
		if Tab(i) == m.tab {
			tabs = append(tabs, tabActiveStyle.Render(name))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderCounts() string {
	var parts []string
	for _, w := range m.home.Counts.Windows {
		parts = append(parts, fmt.Sprintf("%dd: %d", w.Days, w.Reports))
	}
	parts = append(parts,
		fmt.Sprintf("this week: %d", m.home.Counts.ThisWeek.Reports),
		fmt.Sprintf("last week: %d", m.home.Counts.LastWeek.Reports),
		fmt.Sprintf("this month: %d", m.home.Counts.ThisMonth.Reports),
	)
	return strings.Join(parts, "  ")
}

func (m Model) newTable(columns []table.Column, rows []table.Row) string {
	height := m.height - 12
	if height < 3 {
		height = 3
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	if len(rows) > 0 {
		t.SetCursor(m.selectedRow)
	}
	return t.View()
}

func (m Model) renderOwnersTable() string {
	columns := []table.Column{
		{Title: "Name", Width: 30},
		{Title: "Email", Width: 30},
		{Title: "Last Contacted", Width: 20},
	}
	rows := make([]table.Row, 0, len(m.home.Owners))
	for _, o := range m.home.Owners {
		rows = append(rows, table.Row{o.Name, o.Email, formatTime(o.LastContacted)})
	}
	return m.newTable(columns, rows)
}

func (m Model) renderOfficesTable() string {
	columns := []table.Column{
		{Title: "Name", Width: 25},
		{Title: "#", Width: 4},
		{Title: "City", Width: 18},
		{Title: "State", Width: 6},
		{Title: "Last Contacted", Width: 20},
	}
	rows := make([]table.Row, 0, len(m.home.Offices))
	for _, o := range m.home.Offices {
		rows = append(rows, table.Row{o.Name, strconv.Itoa(o.Number), o.City, o.State, formatTime(o.LastContacted)})
	}
	return m.newTable(columns, rows)
}

func (m Model) renderActivityTable() string {
	if m.activity == nil {
		return "No activity loaded.\n"
	}
	matrix := m.activity.Matrix

	columns := []table.Column{{Title: "Owner", Width: 24}}
	for _, ct := range matrix.CallTypes {
		columns = append(columns, table.Column{Title: ct.Label(), Width: 11})
	}
	columns = append(columns, table.Column{Title: "Total", Width: 7})

	rows := make([]table.Row, 0, len(matrix.Rows)+1)
	for _, r := range matrix.Rows {
		row := table.Row{r.OwnerName}
		for _, ct := range matrix.CallTypes {
			row = append(row, strconv.Itoa(r.Counts[ct]))
		}
		rows = append(rows, append(row, strconv.Itoa(r.Total)))
	}
	totals := table.Row{"Total"}
	for _, ct := range matrix.CallTypes {
		totals = append(totals, strconv.Itoa(matrix.ColumnTotals[ct]))
	}
	rows = append(rows, append(totals, strconv.Itoa(matrix.GrandTotal)))

	var s strings.Builder
	s.WriteString("Month to date\n")
	s.WriteString(m.newTable(columns, rows))
	s.WriteString(fmt.Sprintf("\n%d field visit(s) this month\n", len(m.activity.FOVReports)))
	return s.String()
}

// rowCount is the number of selectable rows on the current tab.
func (m Model) rowCount() int {
	if m.home == nil {
		return 0
	}
	switch m.tab {
	case TabOwners:
		return len(m.home.Owners)
	case TabOffices:
		return len(m.home.Offices)
	case TabActivity:
		if m.activity != nil {
			return len(m.activity.Matrix.Rows)
		}
	}
	return 0
}

func (m *Model) clampSelection() {
	n := m.rowCount()
	if m.selectedRow >= n {
		m.selectedRow = n - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

// selectedOwner returns the owner under the cursor on the owners or
// activity tab.
func (m Model) selectedOwner() (models.Owner, bool) {
	if m.home == nil || m.rowCount() == 0 {
		return models.Owner{}, false
	}
	switch m.tab {
	case TabOwners:
		return m.home.Owners[m.selectedRow], true
	case TabActivity:
		id := m.activity.Matrix.Rows[m.selectedRow].OwnerID
		for _, o := range m.home.Owners {
			if o.ID == id {
				return o, true
			}
		}
	}
	return models.Owner{}, false
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.tab = (m.tab + 1) % Tab(len(tabNames))
		m.selectedRow = 0
	case "shift+tab":
		m.tab = (m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
		m.selectedRow = 0
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < m.rowCount()-1 {
			m.selectedRow++
		}
	case "r":
		m.statusMessage = ""
		return m, m.loadDashboard()
	case "g":
		return m, m.loadGraph()
	case "enter":
		if m.tab == TabOffices && m.rowCount() > 0 {
			return m, m.loadOfficeDetail(m.home.Offices[m.selectedRow])
		}
		if owner, ok := m.selectedOwner(); ok {
			return m, m.loadOwnerDetail(owner)
		}
	case "e":
		if next, ok := m.startEdit(); ok {
			return next, nil
		}
	case "d":
		if _, ok := m.selectedOwner(); ok && m.tab == TabOwners {
			m.viewMode = ViewConfirmDelete
		}
	}
	return m, nil
}
