// ABOUTME: Graph view showing the hierarchy as GraphViz DOT source
// ABOUTME: Scoped to the selected owner when one is under the cursor
package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/harperreed/officecrm/viz"
)

func (m Model) loadGraph() tea.Cmd {
	var ownerID *uuid.UUID
	if owner, ok := m.selectedOwner(); ok {
		ownerID = &owner.ID
	}
	return func() tea.Msg {
		dot, _, err := viz.NewGraphGenerator(m.store).GenerateHierarchyGraph(m.ctx, m.userID, ownerID)
		if err != nil {
			return errMsg{err}
		}
		return graphMsg{dot}
	}
}

func (m Model) renderGraphView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Hierarchy Graph") + "\n\n")
	s.WriteString(m.graphDOT)
	s.WriteString("\n" + helpStyle.Render("Esc: Back • q: Quit"))

	return s.String()
}

func (m Model) handleGraphKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.viewMode = ViewList
		m.graphDOT = ""
	}
	return m, nil
}
