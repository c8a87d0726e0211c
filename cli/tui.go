// ABOUTME: TUI subcommand
// ABOUTME: Launches the interactive terminal dashboard
package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/harperreed/officecrm/db"
	"github.com/harperreed/officecrm/tui"
)

// TUICommand runs the dashboard until the user quits.
func TUICommand(ctx context.Context, store *db.Store, userID uuid.UUID) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal")
	}

	p := tea.NewProgram(tui.NewModel(ctx, store, userID), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
