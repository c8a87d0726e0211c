// ABOUTME: Backup CLI commands
// ABOUTME: Routes backup subcommands to Charm KV snapshot operations
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/harperreed/officecrm/charm"
	"github.com/harperreed/officecrm/db"
)

// BackupCommand dispatches "backup <subcommand>".
func BackupCommand(ctx context.Context, c *charm.Client, store *db.Store, userID uuid.UUID, args []string, w io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("backup requires a subcommand (create, list, restore, prune, status, now, auto, wipe)")
	}

	sub, subArgs := args[0], args[1:]
	switch sub {
	case "create":
		return charm.BackupCommand(ctx, c, store, userID, subArgs, w)
	case "list":
		return charm.ListCommand(c, userID, subArgs, w)
	case "restore":
		return charm.RestoreCommand(ctx, c, store, userID, subArgs, w)
	case "prune":
		return charm.PruneCommand(c, userID, subArgs, w)
	case "status":
		return charm.StatusCommand(c, userID, w)
	case "now":
		return charm.SyncNowCommand(c, w)
	case "auto":
		return charm.SetAutoSyncCommand(c.Config(), subArgs, w)
	case "wipe":
		return charm.WipeCommand(c, subArgs, w)
	}
	return fmt.Errorf("unknown backup command: %s", sub)
}
