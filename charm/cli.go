// ABOUTME: CLI commands for snapshot backup over Charm KV
// ABOUTME: Backup, list, restore and prune tenant snapshots; inspect and sync the connection

package charm

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// BackupCommand stores a new snapshot of the user's tenant.
func BackupCommand(ctx context.Context, c *Client, store Exporter, userID uuid.UUID, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("backup create", flag.ContinueOnError)
	keep := fs.Int("keep", 0, "Prune to this many snapshots afterwards (0 keeps all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	info, export, err := Backup(ctx, c, store, userID)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "✓ Snapshot %s\n", info.Key)
	_, _ = fmt.Fprintf(w, "  %d owners, %d offices, %d employees, %d reports\n",
		len(export.Owners), len(export.Offices), len(export.Employees), len(export.Reports))

	if *keep > 0 {
		removed, err := Prune(c, userID, *keep)
		if err != nil {
			return err
		}
		if removed > 0 {
			_, _ = fmt.Fprintf(w, "✓ Pruned %d old snapshots\n", removed)
		}
	}
	return nil
}

func ListCommand(c *Client, userID uuid.UUID, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("backup list", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	snapshots, err := ListSnapshots(c, userID)
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		_, _ = fmt.Fprintln(w, "No snapshots found.")
		return nil
	}
	for _, s := range snapshots {
		_, _ = fmt.Fprintf(w, "%s  %s\n", s.TakenAt.Format("2006-01-02 15:04:05"), s.Key)
	}
	return nil
}

// RestoreCommand replays a snapshot into the user's tenant. Without
// --key the newest snapshot is used.
func RestoreCommand(ctx context.Context, c *Client, store Exporter, userID uuid.UUID, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("backup restore", flag.ContinueOnError)
	key := fs.String("key", "", "Snapshot key (default: newest)")
	confirm := fs.Bool("confirm", false, "Confirm restore")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*confirm {
		_, _ = fmt.Fprintln(w, "Restore adds a copy of the snapshot's owners, offices, employees and reports.")
		_, _ = fmt.Fprintln(w, "Existing data is kept, so restoring twice duplicates it.")
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "To confirm, run:")
		_, _ = fmt.Fprintln(w, "  officecrm backup restore --confirm")
		return nil
	}

	result, err := Restore(ctx, c, store, userID, *key)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "✓ Restored %d owners, %d offices, %d employees, %d reports\n",
		result.Owners, result.Offices, result.Employees, result.Reports)
	return nil
}

func PruneCommand(c *Client, userID uuid.UUID, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("backup prune", flag.ContinueOnError)
	keep := fs.Int("keep", 10, "Number of snapshots to keep")
	if err := fs.Parse(args); err != nil {
		return err
	}

	removed, err := Prune(c, userID, *keep)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "✓ Removed %d snapshots\n", removed)
	return nil
}

// StatusCommand shows the connection and how many snapshots the user has.
func StatusCommand(c *Client, userID uuid.UUID, w io.Writer) error {
	cfg := c.Config()
	_, _ = fmt.Fprintln(w, "Charm Backup Status")
	_, _ = fmt.Fprintln(w, "───────────────────")
	_, _ = fmt.Fprintf(w, "Server:    %s\n", cfg.Host)
	_, _ = fmt.Fprintf(w, "Auto-sync: %v\n", cfg.AutoSync)

	id, err := c.ID()
	if err != nil {
		_, _ = fmt.Fprintln(w, "\nStatus: Not connected")
		_, _ = fmt.Fprintln(w, "Charm uses SSH keys for authentication - no login required!")
	} else {
		_, _ = fmt.Fprintln(w, "\nStatus: Connected")
		_, _ = fmt.Fprintf(w, "ID:        %s\n", id)
	}

	snapshots, err := ListSnapshots(c, userID)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Snapshots: %d\n", len(snapshots))
	if len(snapshots) > 0 {
		_, _ = fmt.Fprintf(w, "Latest:    %s\n", snapshots[0].TakenAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// SyncNowCommand pushes and pulls immediately.
func SyncNowCommand(c *Client, w io.Writer) error {
	if err := c.Sync(); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	_, _ = fmt.Fprintln(w, "✓ Synced")
	return nil
}

func SetAutoSyncCommand(cfg *Config, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("backup auto", flag.ContinueOnError)
	enable := fs.Bool("enable", false, "Enable auto-sync")
	disable := fs.Bool("disable", false, "Disable auto-sync")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *enable:
		if err := cfg.SetAutoSync(true); err != nil {
			return fmt.Errorf("failed to enable auto-sync: %w", err)
		}
		_, _ = fmt.Fprintln(w, "✓ Auto-sync enabled")
	case *disable:
		if err := cfg.SetAutoSync(false); err != nil {
			return fmt.Errorf("failed to disable auto-sync: %w", err)
		}
		_, _ = fmt.Fprintln(w, "✓ Auto-sync disabled")
	default:
		_, _ = fmt.Fprintln(w, "Usage: officecrm backup auto --enable|--disable")
	}
	return nil
}

// WipeCommand deletes every snapshot of every user in the local KV.
func WipeCommand(c *Client, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("backup wipe", flag.ContinueOnError)
	confirm := fs.Bool("confirm", false, "Confirm data wipe")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*confirm {
		_, _ = fmt.Fprintln(w, "WARNING: This will delete ALL local snapshots!")
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "To confirm, run:")
		_, _ = fmt.Fprintln(w, "  officecrm backup wipe --confirm")
		return nil
	}

	if err := c.Reset(); err != nil {
		return fmt.Errorf("failed to reset KV store: %w", err)
	}
	_, _ = fmt.Fprintln(w, "✓ All snapshots wiped")
	return nil
}
