// ABOUTME: Report and dashboard CLI commands
// ABOUTME: Logs reports and prints home, owner, office and activity dashboards
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/harperreed/officecrm/db"
	"github.com/harperreed/officecrm/handlers"
	"github.com/harperreed/officecrm/models"
	"github.com/harperreed/officecrm/viz"
)

// LogReportCommand logs a report against an employee, office or owner.
func LogReportCommand(ctx context.Context, store *db.Store, userID uuid.UUID, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("log-report", flag.ContinueOnError)
	employee := fs.String("employee", "", "Employee ID")
	office := fs.String("office", "", "Office ID (or the office of an owner-level report)")
	owner := fs.String("owner", "", "Owner ID")
	calltype := fs.String("calltype", "", "phone, email, fov, teams or other (required)")
	content := fs.String("content", "", "What happened (required)")
	subject := fs.String("subject", "", "Short subject line")
	vibe := fs.Int("vibe", 0, "How it went, 1-10 (default 5)")
	transcript := fs.Bool("transcript", false, "A transcript exists")
	date := fs.String("date", "", "When it happened, RFC3339 or YYYY-MM-DD (default now)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	input := handlers.LogReportInput{
		Content:    *content,
		CallType:   *calltype,
		Subject:    *subject,
		Vibe:       *vibe,
		Transcript: *transcript,
		Date:       *date,
	}
	// The most specific target wins; --office narrows an owner report.
	switch {
	case *employee != "":
		input.TargetType, input.TargetID = string(models.TargetEmployee), *employee
	case *owner != "":
		input.TargetType, input.TargetID = string(models.TargetOwner), *owner
		input.OfficeID = *office
	case *office != "":
		input.TargetType, input.TargetID = string(models.TargetOffice), *office
	default:
		return fmt.Errorf("one of --employee, --office or --owner is required")
	}

	_, report, err := handlers.NewHandlers(store, userID).LogReport(ctx, nil, input)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "✓ Report logged: %s (ID: %s)\n", models.CallType(report.CallType).Label(), report.ID)
	return nil
}

// HomeCommand prints the home dashboard.
func HomeCommand(ctx context.Context, store *db.Store, userID uuid.UUID, w io.Writer) error {
	summary, err := store.HomeSummary(ctx, userID, store.Now())
	if err != nil {
		return fmt.Errorf("failed to build home summary: %w", err)
	}
	fmt.Fprint(w, viz.RenderHome(summary))
	return nil
}

// OwnerCommand prints one owner's summary.
func OwnerCommand(ctx context.Context, store *db.Store, userID uuid.UUID, args []string, w io.Writer) error {
	id, err := positionalID("owner", "owner", args)
	if err != nil {
		return err
	}
	summary, err := store.OwnerSummary(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to build owner summary: %w", err)
	}
	fmt.Fprint(w, viz.RenderOwnerSummary(summary))
	return nil
}

// OfficeCommand prints one office's summary.
func OfficeCommand(ctx context.Context, store *db.Store, userID uuid.UUID, args []string, w io.Writer) error {
	id, err := positionalID("office", "office", args)
	if err != nil {
		return err
	}
	summary, err := store.OfficeSummary(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to build office summary: %w", err)
	}
	fmt.Fprint(w, viz.RenderOfficeSummary(summary))
	return nil
}

// ActivityCommand prints the owner x calltype matrix and field visits.
func ActivityCommand(ctx context.Context, store *db.Store, userID uuid.UUID, args []string, w io.Writer) error {
	fs := flag.NewFlagSet("activity", flag.ContinueOnError)
	start := fs.String("start", "", "First day, YYYY-MM-DD")
	end := fs.String("end", "", "Last day (inclusive), YYYY-MM-DD")
	days := fs.Int("days", 0, "Shortcut for the trailing N days ending today")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *days > 0 && *start == "" && *end == "" {
		today := store.Now().UTC()
		*start = today.AddDate(0, 0, -(*days - 1)).Format(models.DateLayout)
		*end = today.Format(models.DateLayout)
	}

	r, err := models.ParseDateRange(*start, *end)
	if err != nil {
		return err
	}
	report, err := store.ActivityReport(ctx, userID, r)
	if err != nil {
		return fmt.Errorf("failed to build activity report: %w", err)
	}
	fmt.Fprint(w, viz.RenderActivity(report))
	return nil
}

func formatWhen(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04")
}
