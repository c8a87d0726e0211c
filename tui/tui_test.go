// ABOUTME: Tests for the terminal dashboard model
// ABOUTME: Feeds key and data messages through Update and checks views
package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/officecrm/db"
	"github.com/harperreed/officecrm/models"
)

func setupModel(t *testing.T) (Model, *db.Store, uuid.UUID) {
	t.Helper()
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	store := db.NewStore(database, db.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	user := &models.User{Username: "alice"}
	require.NoError(t, store.CreateUser(ctx, user))

	owner := &models.Owner{Name: "Acme"}
	require.NoError(t, store.CreateOwner(ctx, user.ID, owner))
	office := &models.Office{Name: "Suite 200", Number: 7, Address: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701"}
	require.NoError(t, store.CreateOffice(ctx, user.ID, owner.ID, office))
	emp := &models.Employee{Name: "Jane Doe", Position: "Manager"}
	require.NoError(t, store.CreateEmployee(ctx, user.ID, office.ID, emp))
	_, err = store.LogReport(ctx, user.ID, models.ReportInput{
		Target:   models.ReportTarget{Kind: models.TargetEmployee, ID: emp.ID},
		Content:  "Walked the floor",
		CallType: models.CallTypeFOV,
		Vibe:     8,
	})
	require.NoError(t, err)

	return NewModel(ctx, store, user.ID), store, user.ID
}

// step runs cmd and feeds its message back into the model.
func step(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	return next.(Model)
}

func press(m Model, key string) (Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestInitLoadsDashboard(t *testing.T) {
	m, _, _ := setupModel(t)
	assert.Contains(t, m.View(), "Loading")

	m = step(t, m, m.Init())
	require.NotNil(t, m.home)
	require.NotNil(t, m.activity)
	assert.Len(t, m.home.Owners, 1)
	assert.Equal(t, 1, m.activity.Matrix.GrandTotal)

	view := m.View()
	assert.Contains(t, view, "Acme")
	assert.Contains(t, view, "2025-03-12 15:00")
}

func TestTabsAndDrillDown(t *testing.T) {
	m, _, _ := setupModel(t)
	m = step(t, m, m.Init())

	m, cmd := press(m, "enter")
	m = step(t, m, cmd)
	assert.Equal(t, ViewDetail, m.viewMode)
	assert.Contains(t, m.View(), "Owner: Acme")
	assert.Contains(t, m.View(), "Suite 200")

	m, _ = press(m, "esc")
	assert.Equal(t, ViewList, m.viewMode)

	m, _ = press(m, "tab")
	assert.Equal(t, TabOffices, m.tab)
	m, cmd = press(m, "enter")
	m = step(t, m, cmd)
	view := m.View()
	assert.Contains(t, view, "Office #7: Suite 200")
	assert.Contains(t, view, "Jane Doe")
	assert.Contains(t, view, "8.0")

	m, _ = press(m, "esc")
	m, _ = press(m, "tab")
	assert.Equal(t, TabActivity, m.tab)
	assert.Contains(t, m.View(), "Field Visit")
	assert.Contains(t, m.View(), "1 field visit(s)")
}

func TestGraphView(t *testing.T) {
	m, _, _ := setupModel(t)
	m = step(t, m, m.Init())

	m, cmd := press(m, "g")
	m = step(t, m, cmd)
	assert.Equal(t, ViewGraph, m.viewMode)
	assert.Contains(t, m.graphDOT, "digraph")
	assert.Contains(t, m.View(), "Acme")

	m, _ = press(m, "esc")
	assert.Equal(t, ViewList, m.viewMode)
	assert.Empty(t, m.graphDOT)
}

func TestDeleteOwnerConfirm(t *testing.T) {
	m, store, userID := setupModel(t)
	m = step(t, m, m.Init())

	m, _ = press(m, "d")
	assert.Equal(t, ViewConfirmDelete, m.viewMode)
	assert.Contains(t, m.View(), "Delete owner?")

	m, _ = press(m, "n")
	assert.Equal(t, ViewList, m.viewMode)

	m, _ = press(m, "d")
	m, cmd := press(m, "y")
	next, reload := m.Update(cmd())
	m = next.(Model)
	assert.Equal(t, "Deleted Acme", m.statusMessage)
	m = step(t, m, reload)
	assert.Empty(t, m.home.Owners)

	owners, err := store.ListOwners(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, owners)
}

func TestEditOwnerForm(t *testing.T) {
	m, store, userID := setupModel(t)
	m = step(t, m, m.Init())

	m, _ = press(m, "e")
	require.Equal(t, ViewEdit, m.viewMode)
	require.Len(t, m.formInputs, 2)
	assert.Equal(t, "Acme", m.formInputs[0].Value())
	assert.Contains(t, m.View(), "EDIT OWNER")

	// Letters go to the focused field instead of quitting.
	m, _ = press(m, "q")
	assert.Equal(t, ViewEdit, m.viewMode)
	assert.Equal(t, "Acmeq", m.formInputs[0].Value())

	m.formInputs[0].SetValue("Acme Holdings")
	m, _ = press(m, "tab")
	assert.Equal(t, 1, m.focusIndex)
	m.formInputs[1].SetValue("ops@acme.test")

	m, cmd := press(m, "enter")
	next, reload := m.Update(cmd())
	m = next.(Model)
	assert.Equal(t, ViewList, m.viewMode)
	assert.Equal(t, "Saved Acme Holdings", m.statusMessage)
	m = step(t, m, reload)
	assert.Contains(t, m.View(), "Acme Holdings")

	owners, err := store.ListOwners(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, owners, 1)
	assert.Equal(t, "ops@acme.test", owners[0].Email)
	require.NotNil(t, owners[0].LastContacted, "editing keeps last contacted")
}

func TestEditOfficeFormValidation(t *testing.T) {
	m, store, userID := setupModel(t)
	m = step(t, m, m.Init())

	m, _ = press(m, "tab")
	m, _ = press(m, "e")
	require.Equal(t, ViewEdit, m.viewMode)
	require.Len(t, m.formInputs, 6)
	assert.Equal(t, "7", m.formInputs[1].Value())

	m.formInputs[1].SetValue("101")
	m, cmd := press(m, "enter")
	m = step(t, m, cmd)
	assert.Equal(t, ViewEdit, m.viewMode, "a rejected save keeps the form open")
	var verr *models.ValidationError
	require.ErrorAs(t, m.err, &verr)
	assert.Contains(t, m.View(), "number")

	m.formInputs[1].SetValue("12")
	m, cmd = press(m, "enter")
	next, _ := m.Update(cmd())
	m = next.(Model)
	assert.Equal(t, ViewList, m.viewMode)

	offices, err := store.ListOffices(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, offices, 1)
	assert.Equal(t, 12, offices[0].Number)

	m, _ = press(m, "tab")
	m, _ = press(m, "e")
	assert.Equal(t, ViewList, m.viewMode, "activity rows are not editable")
}

func TestNavigationClamps(t *testing.T) {
	m, _, _ := setupModel(t)
	m = step(t, m, m.Init())

	m, _ = press(m, "down")
	m, _ = press(m, "j")
	assert.Equal(t, 0, m.selectedRow)
	m, _ = press(m, "k")
	assert.Equal(t, 0, m.selectedRow)
}

func TestMonthToDate(t *testing.T) {
	r := monthToDate(time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC))
	require.NotNil(t, r.Start)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *r.Start)
	assert.True(t, r.Contains(time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2025, 2, 28, 23, 0, 0, 0, time.UTC)))
}
