// ABOUTME: Import bookkeeping for reports created from external sources
// ABOUTME: Keeps re-running an import from logging the same event twice
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/officecrm/metrics"
	"github.com/harperreed/officecrm/models"
)

// ImportReport logs a report for an external record unless that record
// was already imported by the user. It returns nil and false for a
// duplicate.
func (s *Store) ImportReport(ctx context.Context, userID uuid.UUID, source, sourceID string, in models.ReportInput) (*models.Report, bool, error) {
	var report *models.Report
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		imported, err := hasImported(ctx, tx, userID, source, sourceID)
		if err != nil || imported {
			return err
		}

		report, err = s.logReport(ctx, tx, userID, in)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO import_log (user_id, source, source_id, report_id, imported_at)
			VALUES (?, ?, ?, ?, ?)
		`, userID.String(), source, sourceID, report.ID.String(), toMillis(s.Now()))
		if err != nil {
			return fmt.Errorf("failed to record import: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if report == nil {
		return nil, false, nil
	}

	metrics.ReportsLogged.WithLabelValues(string(report.CallType), string(in.Target.Kind)).Inc()
	return report, true, nil
}

// HasImported reports whether the external record was already imported.
func (s *Store) HasImported(ctx context.Context, userID uuid.UUID, source, sourceID string) (bool, error) {
	return hasImported(ctx, s.db, userID, source, sourceID)
}

func hasImported(ctx context.Context, q querier, userID uuid.UUID, source, sourceID string) (bool, error) {
	var reportID string
	err := q.QueryRowContext(ctx,
		`SELECT report_id FROM import_log WHERE user_id = ? AND source = ? AND source_id = ?`,
		userID.String(), source, sourceID,
	).Scan(&reportID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check import log: %w", err)
	}
	return true, nil
}
