// ABOUTME: Delete confirmation dialog for owners
// ABOUTME: Deleting an owner cascades to its offices, employees and reports
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/officecrm/models"
)

func (m Model) renderConfirmDeleteView() string {
	owner, ok := m.selectedOwner()
	if !ok {
		return "Nothing selected.\n" + helpStyle.Render("Esc: Back")
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("9")).
		Padding(1, 2)

	var s strings.Builder
	s.WriteString(errorStyle.Render("Delete owner?") + "\n\n")
	s.WriteString(fmt.Sprintf("%s and all of their offices, employees and reports will be removed.\n\n", owner.Name))
	s.WriteString("y: Confirm • n/Esc: Cancel")

	return boxStyle.Render(s.String())
}

func (m Model) deleteOwner(owner models.Owner) tea.Cmd {
	return func() tea.Msg {
		if err := m.store.DeleteOwner(m.ctx, m.userID, owner.ID); err != nil {
			return errMsg{err}
		}
		return deletedMsg{name: owner.Name}
	}
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		owner, ok := m.selectedOwner()
		m.viewMode = ViewList
		if ok {
			return m, m.deleteOwner(owner)
		}
	case "n", "N", "esc":
		m.viewMode = ViewList
	}
	return m, nil
}
