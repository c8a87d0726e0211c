// ABOUTME: Tenant snapshots stored as JSON documents in Charm KV
// ABOUTME: Keys sort chronologically under snapshot/<user id>/
package charm

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/officecrm/models"
)

const snapshotPrefix = "snapshot/"

// Exporter produces and restores whole-tenant exports. *db.Store
// satisfies it.
type Exporter interface {
	ExportTenant(ctx context.Context, userID uuid.UUID) (*models.TenantExport, error)
	RestoreTenant(ctx context.Context, userID uuid.UUID, export *models.TenantExport) (*models.RestoreResult, error)
}

// SnapshotInfo describes a stored snapshot without loading its body.
type SnapshotInfo struct {
	Key     string
	TakenAt time.Time
}

func userPrefix(userID uuid.UUID) string {
	return snapshotPrefix + userID.String() + "/"
}

// snapshotKey zero-pads the timestamp so lexical order is time order.
func snapshotKey(userID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("%s%020d", userPrefix(userID), at.UnixMilli())
}

// Backup exports the user's tenant and stores it as a new snapshot.
func Backup(ctx context.Context, c *Client, store Exporter, userID uuid.UUID) (SnapshotInfo, *models.TenantExport, error) {
	export, err := store.ExportTenant(ctx, userID)
	if err != nil {
		return SnapshotInfo{}, nil, fmt.Errorf("failed to export tenant: %w", err)
	}

	data, err := json.Marshal(export)
	if err != nil {
		return SnapshotInfo{}, nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	info := SnapshotInfo{Key: snapshotKey(userID, export.ExportedAt), TakenAt: export.ExportedAt.UTC().Truncate(time.Millisecond)}
	if err := c.Set([]byte(info.Key), data); err != nil {
		return SnapshotInfo{}, nil, fmt.Errorf("failed to store snapshot: %w", err)
	}
	return info, export, nil
}

// ListSnapshots returns the user's snapshots, newest first.
func ListSnapshots(c *Client, userID uuid.UUID) ([]SnapshotInfo, error) {
	keys, err := c.KeysWithPrefix([]byte(userPrefix(userID)))
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	snapshots := make([]SnapshotInfo, 0, len(keys))
	for _, k := range keys {
		key := string(k)
		ms, err := strconv.ParseInt(strings.TrimPrefix(key, userPrefix(userID)), 10, 64)
		if err != nil {
			continue
		}
		snapshots = append(snapshots, SnapshotInfo{Key: key, TakenAt: time.UnixMilli(ms).UTC()})
	}
	slices.SortFunc(snapshots, func(a, b SnapshotInfo) int {
		return strings.Compare(b.Key, a.Key)
	})
	return snapshots, nil
}

// LoadSnapshot reads one snapshot. It refuses keys outside the user's
// own prefix.
func LoadSnapshot(c *Client, userID uuid.UUID, key string) (*models.TenantExport, error) {
	if !strings.HasPrefix(key, userPrefix(userID)) {
		return nil, fmt.Errorf("snapshot %s does not belong to user %s", key, userID)
	}
	data, err := c.Get([]byte(key))
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}
	var export models.TenantExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", key, err)
	}
	return &export, nil
}

// Restore replays a snapshot into userID's tenant. An empty key picks
// the newest snapshot.
func Restore(ctx context.Context, c *Client, store Exporter, userID uuid.UUID, key string) (*models.RestoreResult, error) {
	if key == "" {
		snapshots, err := ListSnapshots(c, userID)
		if err != nil {
			return nil, err
		}
		if len(snapshots) == 0 {
			return nil, fmt.Errorf("no snapshots for user %s", userID)
		}
		key = snapshots[0].Key
	}

	export, err := LoadSnapshot(c, userID, key)
	if err != nil {
		return nil, err
	}
	return store.RestoreTenant(ctx, userID, export)
}

// Prune deletes all but the newest keep snapshots and returns how many
// were removed.
func Prune(c *Client, userID uuid.UUID, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	snapshots, err := ListSnapshots(c, userID)
	if err != nil {
		return 0, err
	}
	if len(snapshots) <= keep {
		return 0, nil
	}

	removed := 0
	for _, s := range snapshots[keep:] {
		if err := c.Delete([]byte(s.Key)); err != nil {
			return removed, fmt.Errorf("failed to delete snapshot %s: %w", s.Key, err)
		}
		removed++
	}
	return removed, nil
}
