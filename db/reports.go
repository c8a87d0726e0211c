// ABOUTME: Report logging with last-contacted propagation
// ABOUTME: Resolves the target's owner chain and bumps owner/office timestamps in one transaction
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/officecrm/metrics"
	"github.com/harperreed/officecrm/models"
)

const reportColumns = `r.id, r.employee_id, r.office_id, r.owner_id, r.author_id, r.subject, r.content,
	r.calltype, r.vibe, r.transcript, r.created_at`

func scanReport(row rowScanner) (*models.Report, error) {
	var report models.Report
	var employeeID, officeID uuid.NullUUID
	var subject sql.NullString
	var calltype string
	var createdAt int64
	err := row.Scan(&report.ID, &employeeID, &officeID, &report.OwnerID, &report.AuthorID,
		&subject, &report.Content, &calltype, &report.Vibe, &report.Transcript, &createdAt)
	if err != nil {
		return nil, err
	}
	report.EmployeeID = nullableUUID(employeeID)
	report.OfficeID = nullableUUID(officeID)
	report.Subject = subject.String
	report.CallType = models.CallType(calltype)
	report.CreatedAt = fromMillis(createdAt)
	return &report, nil
}

// LogReport records a report against an employee, office or owner of
// the user. The owner (and office, when known) are derived from the
// target, never taken from the caller. Both get their last-contacted
// time advanced to the report time unless they are already later.
func (s *Store) LogReport(ctx context.Context, userID uuid.UUID, in models.ReportInput) (*models.Report, error) {
	var report *models.Report
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		report, err = s.logReport(ctx, tx, userID, in)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.ReportsLogged.WithLabelValues(string(report.CallType), string(in.Target.Kind)).Inc()
	return report, nil
}

func (s *Store) logReport(ctx context.Context, tx *sql.Tx, userID uuid.UUID, in models.ReportInput) (*models.Report, error) {
	in.Subject = strings.TrimSpace(in.Subject)
	in.ApplyDefaults()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := requireUser(ctx, tx, userID); err != nil {
		return nil, err
	}

	report := &models.Report{
		ID:         uuid.New(),
		AuthorID:   userID,
		Subject:    in.Subject,
		Content:    in.Content,
		CallType:   in.CallType,
		Vibe:       in.Vibe,
		Transcript: in.Transcript,
		CreatedAt:  s.Now(),
	}
	if in.CreatedAt != nil {
		report.CreatedAt = normalizeTime(*in.CreatedAt)
	}

	switch in.Target.Kind {
	case models.TargetEmployee:
		emp, err := scopedEmployee(ctx, tx, userID, in.Target.ID)
		if err != nil {
			return nil, err
		}
		report.EmployeeID = &emp.ID
		report.OfficeID = &emp.OfficeID
		report.OwnerID = emp.OwnerID

	case models.TargetOffice:
		office, err := scopedOffice(ctx, tx, userID, in.Target.ID)
		if err != nil {
			return nil, err
		}
		report.OfficeID = &office.ID
		report.OwnerID = office.OwnerID

	case models.TargetOwner:
		owner, err := scopedOwner(ctx, tx, userID, in.Target.ID)
		if err != nil {
			return nil, err
		}
		report.OwnerID = owner.ID
		officeID, err := officeForOwner(ctx, tx, owner.ID, in.OfficeID)
		if err != nil {
			return nil, err
		}
		report.OfficeID = officeID
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO reports (id, employee_id, office_id, owner_id, author_id, subject, content,
			calltype, vibe, transcript, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, report.ID.String(), uuidArg(report.EmployeeID), uuidArg(report.OfficeID),
		report.OwnerID.String(), report.AuthorID.String(), nullableString(report.Subject),
		report.Content, string(report.CallType), report.Vibe, report.Transcript,
		toMillis(report.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert report: %w", err)
	}

	if err := propagateContact(ctx, tx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// advanceContact keeps the later of the stored and supplied instants. NULL
// compares below everything, including negative millis before 1970.
const advanceContact = `CASE WHEN last_contacted IS NULL OR last_contacted < ? THEN ? ELSE last_contacted END`

// propagateContact advances last_contacted on the report's owner and
// office. It never moves either value backwards.
func propagateContact(ctx context.Context, q querier, report *models.Report) error {
	at := toMillis(report.CreatedAt)

	n, err := execCount(ctx, q,
		`UPDATE owners SET last_contacted = `+advanceContact+` WHERE id = ?`,
		at, at, report.OwnerID.String())
	if err != nil {
		return fmt.Errorf("failed to update owner last contacted: %w", err)
	}
	if n != 1 {
		return &IntegrityError{Entity: "report", ID: report.ID, Detail: "owner row missing during propagation"}
	}

	if report.OfficeID == nil {
		return nil
	}
	n, err = execCount(ctx, q,
		`UPDATE offices SET last_contacted = `+advanceContact+` WHERE id = ? AND owner_id = ?`,
		at, at, report.OfficeID.String(), report.OwnerID.String())
	if err != nil {
		return fmt.Errorf("failed to update office last contacted: %w", err)
	}
	if n != 1 {
		return &IntegrityError{Entity: "report", ID: report.ID, Detail: "office does not belong to report owner"}
	}
	return nil
}

func (s *Store) GetReport(ctx context.Context, userID, reportID uuid.UUID) (*models.Report, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+reportColumns+`
		FROM reports r
		JOIN owners o ON o.id = r.owner_id
		WHERE r.id = ? AND o.user_id = ?
	`, reportID.String(), userID.String())

	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("report", reportID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return report, nil
}

// listReports returns the user's reports matching where, newest first.
// A limit of zero returns every match.
func listReports(ctx context.Context, q querier, userID uuid.UUID, where string, limit int, args ...any) ([]models.Report, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM reports r
		JOIN owners o ON o.id = r.owner_id
		WHERE o.user_id = ?`
	if where != "" {
		query += ` AND (` + where + `)`
	}
	query += ` ORDER BY r.created_at DESC, r.id DESC`

	queryArgs := append([]any{userID.String()}, args...)
	if limit > 0 {
		query += ` LIMIT ?`
		queryArgs = append(queryArgs, limit)
	}

	rows, err := q.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := []models.Report{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, *report)
	}
	return reports, rows.Err()
}
