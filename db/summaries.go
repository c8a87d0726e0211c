// ABOUTME: Dashboard summaries for home, owner and office views
// ABOUTME: Each summary is read from a single read-only snapshot
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/officecrm/metrics"
	"github.com/harperreed/officecrm/models"
)

// HomeSummary is the landing view: activity counts, the latest reports,
// and every owner and office of the user.
func (s *Store) HomeSummary(ctx context.Context, userID uuid.UUID, now time.Time) (*models.HomeSummary, error) {
	defer metrics.ObserveAggregation("home_summary", time.Now())

	summary := &models.HomeSummary{}
	err := s.withReadTx(ctx, func(tx *sql.Tx) error {
		counts, err := activityCounts(ctx, tx, userID, now)
		if err != nil {
			return err
		}
		summary.Counts = *counts

		if summary.RecentReports, err = listReports(ctx, tx, userID, "", models.RecentReportLimit); err != nil {
			return err
		}
		if summary.Owners, err = listOwners(ctx, tx, userID); err != nil {
			return err
		}
		summary.Offices, err = listOffices(ctx, tx, `o.user_id = ?`, userID.String())
		return err
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *Store) OwnerSummary(ctx context.Context, userID, ownerID uuid.UUID) (*models.OwnerSummary, error) {
	defer metrics.ObserveAggregation("owner_summary", time.Now())

	summary := &models.OwnerSummary{}
	err := s.withReadTx(ctx, func(tx *sql.Tx) error {
		owner, err := scopedOwner(ctx, tx, userID, ownerID)
		if err != nil {
			return err
		}
		summary.Owner = *owner

		id := ownerID.String()
		if summary.Offices, err = listOffices(ctx, tx, `o.user_id = ? AND f.owner_id = ?`, userID.String(), id); err != nil {
			return err
		}
		if summary.RecentReports, err = listReports(ctx, tx, userID, `r.owner_id = ?`, models.RecentReportLimit, id); err != nil {
			return err
		}
		summary.FOVCount, err = countReports(ctx, tx, `r.owner_id = ? AND r.calltype = ?`, id, string(models.CallTypeFOV))
		return err
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *Store) OfficeSummary(ctx context.Context, userID, officeID uuid.UUID) (*models.OfficeSummary, error) {
	defer metrics.ObserveAggregation("office_summary", time.Now())

	summary := &models.OfficeSummary{}
	err := s.withReadTx(ctx, func(tx *sql.Tx) error {
		office, err := scopedOffice(ctx, tx, userID, officeID)
		if err != nil {
			return err
		}
		summary.Office = *office

		id := officeID.String()
		if summary.Employees, err = listEmployees(ctx, tx, `o.user_id = ? AND e.office_id = ?`, userID.String(), id); err != nil {
			return err
		}
		if summary.RecentReports, err = listReports(ctx, tx, userID, officeReports, models.RecentReportLimit, id, id); err != nil {
			return err
		}
		if summary.AverageVibe, err = averageVibe(ctx, tx, officeID); err != nil {
			return err
		}
		summary.FOVCount, err = countReports(ctx, tx, `(`+officeReports+`) AND r.calltype = ?`, id, id, string(models.CallTypeFOV))
		return err
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// countReports counts reports matching where. Callers scope where
// through an already verified owner or office.
func countReports(ctx context.Context, q querier, where string, args ...any) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports r WHERE `+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return n, nil
}
