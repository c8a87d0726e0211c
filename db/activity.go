// ABOUTME: Aggregation engine for report activity
// ABOUTME: Trailing-window counts, the owner x calltype matrix, FOV listing and vibe averages
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/officecrm/metrics"
	"github.com/harperreed/officecrm/models"
)

// ActivityCounts counts the user's reports in each trailing window
// ending at now, plus the current and previous calendar weeks and the
// month to date.
func (s *Store) ActivityCounts(ctx context.Context, userID uuid.UUID, now time.Time) (*models.ActivityCounts, error) {
	defer metrics.ObserveAggregation("activity_counts", time.Now())

	var counts *models.ActivityCounts
	err := s.withReadTx(ctx, func(tx *sql.Tx) error {
		var err error
		counts, err = activityCounts(ctx, tx, userID, now)
		return err
	})
	return counts, err
}

func activityCounts(ctx context.Context, q querier, userID uuid.UUID, now time.Time) (*models.ActivityCounts, error) {
	now = normalizeTime(now)
	counts := &models.ActivityCounts{
		Now:     now,
		Windows: make([]models.WindowCount, 0, len(models.TrailingWindows)),
	}

	for _, days := range models.TrailingWindows {
		w := models.WindowCount{Days: days, Start: now.AddDate(0, 0, -days), End: now}
		if err := countWindow(ctx, q, userID, &w); err != nil {
			return nil, err
		}
		counts.Windows = append(counts.Windows, w)
	}

	thisWeek := weekStart(now)
	counts.ThisWeek = models.WindowCount{Days: 7, Start: thisWeek, End: now}
	counts.LastWeek = models.WindowCount{
		Days:  7,
		Start: thisWeek.AddDate(0, 0, -7),
		End:   thisWeek.Add(-time.Millisecond),
	}
	if err := countWindow(ctx, q, userID, &counts.ThisWeek); err != nil {
		return nil, err
	}
	if err := countWindow(ctx, q, userID, &counts.LastWeek); err != nil {
		return nil, err
	}

	counts.ThisMonth = models.WindowCount{Days: now.Day(), Start: monthStart(now), End: now}
	if err := countWindow(ctx, q, userID, &counts.ThisMonth); err != nil {
		return nil, err
	}
	return counts, nil
}

func countWindow(ctx context.Context, q querier, userID uuid.UUID, w *models.WindowCount) error {
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN r.calltype = ? THEN 1 ELSE 0 END), 0)
		FROM reports r
		JOIN owners o ON o.id = r.owner_id
		WHERE o.user_id = ? AND r.created_at BETWEEN ? AND ?
	`, string(models.CallTypeFOV), userID.String(), toMillis(w.Start), toMillis(w.End),
	).Scan(&w.Reports, &w.FOVs)
	if err != nil {
		return fmt.Errorf("failed to count %d-day window: %w", w.Days, err)
	}
	return nil
}

// weekStart returns midnight of the Monday on or before t (UTC).
func weekStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// monthStart returns midnight on the first of t's month (UTC).
func monthStart(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// rangeFilter renders r as a SQL condition on r.created_at.
func rangeFilter(r models.DateRange) (string, []any) {
	var conds []string
	var args []any
	if r.Start != nil {
		conds = append(conds, `r.created_at >= ?`)
		args = append(args, toMillis(*r.Start))
	}
	if r.End != nil {
		conds = append(conds, `r.created_at <= ?`)
		args = append(args, toMillis(*r.End))
	}
	return strings.Join(conds, ` AND `), args
}

// ActivityMatrix counts reports per owner and calltype within r. Every
// owner of the user gets a row. An inactive range yields an inactive,
// empty matrix without touching the database.
func (s *Store) ActivityMatrix(ctx context.Context, userID uuid.UUID, r models.DateRange) (*models.ActivityMatrix, error) {
	if !r.Active() {
		return emptyMatrix(r), nil
	}
	defer metrics.ObserveAggregation("activity_matrix", time.Now())

	var matrix *models.ActivityMatrix
	err := s.withReadTx(ctx, func(tx *sql.Tx) error {
		var err error
		matrix, err = activityMatrix(ctx, tx, userID, r)
		return err
	})
	return matrix, err
}

// FOVReports lists field visits within r, newest first.
func (s *Store) FOVReports(ctx context.Context, userID uuid.UUID, r models.DateRange) ([]models.Report, error) {
	if !r.Active() {
		return []models.Report{}, nil
	}
	return fovReports(ctx, s.db, userID, r)
}

// ActivityReport computes the matrix and the FOV listing from a single
// snapshot.
func (s *Store) ActivityReport(ctx context.Context, userID uuid.UUID, r models.DateRange) (*models.ActivityReport, error) {
	if !r.Active() {
		return &models.ActivityReport{Matrix: *emptyMatrix(r), FOVReports: []models.Report{}}, nil
	}
	defer metrics.ObserveAggregation("activity_report", time.Now())

	report := &models.ActivityReport{}
	err := s.withReadTx(ctx, func(tx *sql.Tx) error {
		matrix, err := activityMatrix(ctx, tx, userID, r)
		if err != nil {
			return err
		}
		report.Matrix = *matrix
		report.FOVReports, err = fovReports(ctx, tx, userID, r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func emptyMatrix(r models.DateRange) *models.ActivityMatrix {
	m := &models.ActivityMatrix{
		Active:       r.Active(),
		Range:        r,
		CallTypes:    models.CallTypes,
		Rows:         []models.MatrixRow{},
		ColumnTotals: make(map[models.CallType]int, len(models.CallTypes)),
	}
	for _, ct := range models.CallTypes {
		m.ColumnTotals[ct] = 0
	}
	return m
}

func activityMatrix(ctx context.Context, q querier, userID uuid.UUID, r models.DateRange) (*models.ActivityMatrix, error) {
	matrix := emptyMatrix(r)

	owners, err := listOwners(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	index := make(map[uuid.UUID]int, len(owners))
	for i, owner := range owners {
		row := models.MatrixRow{
			OwnerID:   owner.ID,
			OwnerName: owner.Name,
			Counts:    make(map[models.CallType]int, len(models.CallTypes)),
		}
		for _, ct := range models.CallTypes {
			row.Counts[ct] = 0
		}
		matrix.Rows = append(matrix.Rows, row)
		index[owner.ID] = i
	}

	cond, args := rangeFilter(r)
	rows, err := q.QueryContext(ctx, `
		SELECT r.owner_id, r.calltype, COUNT(*)
		FROM reports r
		JOIN owners o ON o.id = r.owner_id
		WHERE o.user_id = ? AND `+cond+`
		GROUP BY r.owner_id, r.calltype
	`, append([]any{userID.String()}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to count activity: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ownerID uuid.UUID
		var calltype string
		var n int
		if err := rows.Scan(&ownerID, &calltype, &n); err != nil {
			return nil, fmt.Errorf("failed to scan activity cell: %w", err)
		}
		i, ok := index[ownerID]
		if !ok {
			return nil, &IntegrityError{Entity: "owner", ID: ownerID, Detail: "reports counted for an owner missing from the snapshot"}
		}
		matrix.Rows[i].Counts[models.CallType(calltype)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range matrix.Rows {
		row := &matrix.Rows[i]
		for _, ct := range models.CallTypes {
			row.Total += row.Counts[ct]
			matrix.ColumnTotals[ct] += row.Counts[ct]
		}
		matrix.GrandTotal += row.Total
	}
	return matrix, nil
}

func fovReports(ctx context.Context, q querier, userID uuid.UUID, r models.DateRange) ([]models.Report, error) {
	cond, args := rangeFilter(r)
	return listReports(ctx, q, userID, `r.calltype = ? AND `+cond, 0,
		append([]any{string(models.CallTypeFOV)}, args...)...)
}

// AverageVibe averages the vibe of reports logged against the office
// directly or against any of its employees. It is nil when there are
// none.
func (s *Store) AverageVibe(ctx context.Context, userID, officeID uuid.UUID) (*float64, error) {
	var avg *float64
	err := s.withReadTx(ctx, func(tx *sql.Tx) error {
		if _, err := scopedOffice(ctx, tx, userID, officeID); err != nil {
			return err
		}
		var err error
		avg, err = averageVibe(ctx, tx, officeID)
		return err
	})
	return avg, err
}

const officeReports = `r.office_id = ? OR r.employee_id IN (SELECT id FROM employees WHERE office_id = ?)`

func averageVibe(ctx context.Context, q querier, officeID uuid.UUID) (*float64, error) {
	var avg sql.NullFloat64
	id := officeID.String()
	err := q.QueryRowContext(ctx,
		`SELECT AVG(r.vibe) FROM reports r WHERE `+officeReports, id, id,
	).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("failed to average vibe: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	v := avg.Float64
	return &v, nil
}
