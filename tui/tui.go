// ABOUTME: Terminal dashboard using bubbletea
// ABOUTME: Owners, offices and activity tabs with drill-down, graph, edit and delete views
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/harperreed/officecrm/db"
	"github.com/harperreed/officecrm/models"
)

// ViewMode is the screen currently shown.
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewGraph
	ViewConfirmDelete
	ViewEdit
)

// Tab selects the list shown in ViewList.
type Tab int

const (
	TabOwners Tab = iota
	TabOffices
	TabActivity
)

var tabNames = []string{"Owners", "Offices", "Activity"}

type Model struct {
	store  *db.Store
	userID uuid.UUID
	ctx    context.Context

	viewMode    ViewMode
	tab         Tab
	selectedRow int

	home     *models.HomeSummary
	activity *models.ActivityReport

	ownerDetail  *models.OwnerSummary
	officeDetail *models.OfficeSummary
	graphDOT     string

	formInputs []textinput.Model
	focusIndex int
	editKind   editKind
	editID     uuid.UUID

	statusMessage string
	width         int
	height        int
	err           error
}

func NewModel(ctx context.Context, store *db.Store, userID uuid.UUID) Model {
	return Model{
		store:    store,
		userID:   userID,
		ctx:      ctx,
		viewMode: ViewList,
		tab:      TabOwners,
		width:    100,
		height:   30,
	}
}

// Messages carrying loaded data back into Update.
type (
	dashboardMsg struct {
		home     *models.HomeSummary
		activity *models.ActivityReport
	}
	ownerDetailMsg  struct{ summary *models.OwnerSummary }
	officeDetailMsg struct{ summary *models.OfficeSummary }
	graphMsg        struct{ dot string }
	deletedMsg      struct{ name string }
	errMsg          struct{ err error }
)

func (m Model) Init() tea.Cmd {
	return m.loadDashboard()
}

// monthToDate is the activity tab's range: the first of the current
// month through today.
func monthToDate(now time.Time) models.DateRange {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return models.DateRange{Start: &start, End: &now}
}

func (m Model) loadDashboard() tea.Cmd {
	return func() tea.Msg {
		now := m.store.Now()
		home, err := m.store.HomeSummary(m.ctx, m.userID, now)
		if err != nil {
			return errMsg{err}
		}
		activity, err := m.store.ActivityReport(m.ctx, m.userID, monthToDate(now))
		if err != nil {
			return errMsg{err}
		}
		return dashboardMsg{home: home, activity: activity}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case dashboardMsg:
		m.home = msg.home
		m.activity = msg.activity
		m.err = nil
		m.clampSelection()
	case ownerDetailMsg:
		m.ownerDetail = msg.summary
		m.viewMode = ViewDetail
	case officeDetailMsg:
		m.officeDetail = msg.summary
		m.viewMode = ViewDetail
	case graphMsg:
		m.graphDOT = msg.dot
		m.viewMode = ViewGraph
	case savedMsg:
		m.statusMessage = "Saved " + msg.name
		m.viewMode = ViewList
		m.formInputs = nil
		m.err = nil
		return m, m.loadDashboard()
	case deletedMsg:
		m.statusMessage = "Deleted " + msg.name
		m.viewMode = ViewList
		return m, m.loadDashboard()
	case errMsg:
		m.err = msg.err
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewDetail:
		return m.renderDetailView()
	case ViewGraph:
		return m.renderGraphView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	case ViewEdit:
		return m.renderEditView()
	}
	return m.renderListView()
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The edit form takes typed letters, so only ctrl+c quits there.
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.viewMode == ViewEdit {
		return m.handleEditKeys(msg)
	}
	if msg.String() == "q" {
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewGraph:
		return m.handleGraphKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	}
	return m, nil
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))
)
