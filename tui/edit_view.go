// ABOUTME: Edit form for owners and offices
// ABOUTME: Text inputs prefilled from the selected row, saved through the store on Enter
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/harperreed/officecrm/models"
)

// editKind is the entity behind the open form.
type editKind int

const (
	editOwner editKind = iota
	editOffice
)

type savedMsg struct{ name string }

func newInput(placeholder, value string, limit int) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Prompt = placeholder + ": "
	input.CharLimit = limit
	input.SetValue(value)
	return input
}

// startEdit opens the form for the row under the cursor. Only the owners
// and offices tabs have editable rows.
func (m Model) startEdit() (Model, bool) {
	switch m.tab {
	case TabOwners:
		owner, ok := m.selectedOwner()
		if !ok {
			return m, false
		}
		m.editKind = editOwner
		m.editID = owner.ID
		m.formInputs = []textinput.Model{
			newInput("Name", owner.Name, 100),
			newInput("Email", owner.Email, 100),
		}
	case TabOffices:
		if m.home == nil || m.rowCount() == 0 {
			return m, false
		}
		office := m.home.Offices[m.selectedRow]
		m.editKind = editOffice
		m.editID = office.ID
		m.formInputs = []textinput.Model{
			newInput("Name", office.Name, 100),
			newInput("Number", strconv.Itoa(office.Number), 3),
			newInput("Address", office.Address, 200),
			newInput("City", office.City, 100),
			newInput("State", office.State, 50),
			newInput("Zip", office.ZipCode, 20),
		}
	default:
		return m, false
	}

	m.focusIndex = 0
	m.updateFormFocus()
	m.err = nil
	m.viewMode = ViewEdit
	return m, true
}

func (m Model) renderEditView() string {
	var s strings.Builder

	if m.editKind == editOwner {
		s.WriteString(titleStyle.Render("EDIT OWNER"))
	} else {
		s.WriteString(titleStyle.Render("EDIT OFFICE"))
	}
	s.WriteString("\n\n")

	for i, input := range m.formInputs {
		if i == m.focusIndex {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(input.View())
		s.WriteString("\n")
	}

	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}
	s.WriteString("\n" + helpStyle.Render("Tab: Next field • Enter: Save • Esc: Cancel"))
	return s.String()
}

func (m *Model) updateFormFocus() {
	for i := range m.formInputs {
		if i == m.focusIndex {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		m.formInputs = nil
		m.err = nil
		return m, nil
	case "tab", "down":
		m.focusIndex = (m.focusIndex + 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "shift+tab", "up":
		m.focusIndex = (m.focusIndex + len(m.formInputs) - 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "enter":
		return m, m.saveEdit()
	}

	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	return m, cmd
}

// saveEdit writes the form back. Validation failures come back as
// errMsg and leave the form open.
func (m Model) saveEdit() tea.Cmd {
	values := make([]string, len(m.formInputs))
	for i, input := range m.formInputs {
		values[i] = strings.TrimSpace(input.Value())
	}
	kind, id := m.editKind, m.editID

	return func() tea.Msg {
		switch kind {
		case editOwner:
			return m.saveOwner(id, values)
		case editOffice:
			return m.saveOffice(id, values)
		}
		return nil
	}
}

func (m Model) saveOwner(id uuid.UUID, values []string) tea.Msg {
	owner := &models.Owner{ID: id, Name: values[0], Email: values[1]}
	if err := m.store.UpdateOwner(m.ctx, m.userID, owner); err != nil {
		return errMsg{err}
	}
	return savedMsg{name: owner.Name}
}

func (m Model) saveOffice(id uuid.UUID, values []string) tea.Msg {
	number, err := strconv.Atoi(values[1])
	if err != nil {
		return errMsg{fmt.Errorf("number must be a whole number (got %q)", values[1])}
	}
	office := &models.Office{
		ID:      id,
		Name:    values[0],
		Number:  number,
		Address: values[2],
		City:    values[3],
		State:   values[4],
		ZipCode: values[5],
	}
	if err := m.store.UpdateOffice(m.ctx, m.userID, office); err != nil {
		return errMsg{err}
	}
	return savedMsg{name: office.Name}
}
