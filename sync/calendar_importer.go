// ABOUTME: Imports Google Calendar meetings as employee reports
// ABOUTME: Handles pagination, sync tokens, skip rules and per-event deduplication
package sync

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/harperreed/officecrm/db"
	"github.com/harperreed/officecrm/models"
)

const (
	CalendarService = "calendar"

	// initialLookbackMonths bounds a first sync.
	initialLookbackMonths = 6

	maxContentLength = 2000

	// futureEventReason marks meetings that have not happened yet. They
	// are imported by a later sync once their start time has passed.
	futureEventReason = "future event"
)

// Store is what the importer needs from the hierarchy store.
type Store interface {
	FindEmployeeByEmail(ctx context.Context, userID uuid.UUID, email string) ([]models.Employee, error)
	ImportReport(ctx context.Context, userID uuid.UUID, source, sourceID string, in models.ReportInput) (*models.Report, bool, error)
	GetSyncState(ctx context.Context, userID uuid.UUID, service string) (*db.SyncState, error)
	UpdateSyncStatus(ctx context.Context, userID uuid.UUID, service, status string, errorMsg *string) error
	UpdateSyncToken(ctx context.Context, userID uuid.UUID, service, token string) error
	ClearSyncToken(ctx context.Context, userID uuid.UUID, service string) error
}

// ImportResult summarizes one calendar sync.
type ImportResult struct {
	Fetched    int
	Imported   int
	Duplicates int
	Unmatched  int
	Skipped    map[string]int
}

// TotalSkipped sums the skip counts over every reason.
func (r *ImportResult) TotalSkipped() int {
	total := 0
	for _, n := range r.Skipped {
		total += n
	}
	return total
}

type CalendarImporter struct {
	store  Store
	source EventSource
	userID uuid.UUID
	logger *zap.Logger
	now    func() time.Time
}

func NewCalendarImporter(store Store, source EventSource, userID uuid.UUID, logger *zap.Logger) *CalendarImporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarImporter{
		store:  store,
		source: source,
		userID: userID,
		logger: logger,
		now:    time.Now,
	}
}

// Import fetches events and logs a report for every employee attending
// each meeting that has already started. With initial set, or on a first
// sync, it reads the last six months. Otherwise it continues from the
// stored sync token, or from the last sync time when no token was kept.
// A sync that deferred upcoming meetings keeps no token, so those
// meetings are fetched again until they have happened.
func (imp *CalendarImporter) Import(ctx context.Context, initial bool) (*ImportResult, error) {
	if err := imp.store.UpdateSyncStatus(ctx, imp.userID, CalendarService, db.SyncSyncing, nil); err != nil {
		return nil, err
	}

	result, err := imp.run(ctx, initial)
	if err != nil {
		msg := err.Error()
		_ = imp.store.UpdateSyncStatus(ctx, imp.userID, CalendarService, db.SyncError, &msg)
		return nil, err
	}
	return result, nil
}

func (imp *CalendarImporter) run(ctx context.Context, initial bool) (*ImportResult, error) {
	state, err := imp.store.GetSyncState(ctx, imp.userID, CalendarService)
	if err != nil {
		return nil, err
	}

	query := ListQuery{TimeMin: imp.now().AddDate(0, -initialLookbackMonths, 0)}
	switch {
	case initial:
		imp.logger.Info("calendar initial sync", zap.Time("time_min", query.TimeMin))
	case state != nil && state.LastSyncToken != nil:
		query.SyncToken = *state.LastSyncToken
		imp.logger.Info("calendar incremental sync")
	case state != nil && state.LastSyncTime != nil:
		query.TimeMin = *state.LastSyncTime
		imp.logger.Info("calendar sync from last sync time", zap.Time("time_min", query.TimeMin))
	default:
		imp.logger.Info("no previous calendar sync, fetching last six months")
	}

	result := &ImportResult{Skipped: map[string]int{}}
	page := 0
	for {
		events, err := imp.source.ListEvents(ctx, query)
		if err != nil && query.SyncToken != "" && isGone(err) {
			// The stored token expired; restart from the last sync time.
			imp.logger.Warn("calendar sync token invalid, falling back to time-based sync")
			if state != nil && state.LastSyncTime != nil {
				query.TimeMin = *state.LastSyncTime
			}
			query.SyncToken = ""
			query.PageToken = ""
			page = 0
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch calendar events: %w", err)
		}

		page++
		result.Fetched += len(events.Items)
		imp.logger.Debug("calendar page fetched", zap.Int("page", page), zap.Int("events", len(events.Items)))

		for _, event := range events.Items {
			if skip, reason := shouldSkipEvent(event); skip {
				result.Skipped[reason]++
				continue
			}
			if err := imp.importEvent(ctx, event, result); err != nil {
				return nil, err
			}
		}

		if events.NextPageToken == "" {
			deferred := result.Skipped[futureEventReason]
			if events.NextSyncToken != "" && deferred == 0 {
				if err := imp.store.UpdateSyncToken(ctx, imp.userID, CalendarService, events.NextSyncToken); err != nil {
					return nil, err
				}
			} else {
				if deferred > 0 {
					imp.logger.Debug("upcoming meetings deferred, sync token not kept", zap.Int("deferred", deferred))
				}
				if err := imp.store.ClearSyncToken(ctx, imp.userID, CalendarService); err != nil {
					return nil, err
				}
			}
			break
		}
		query.PageToken = events.NextPageToken
	}

	imp.logger.Info("calendar sync complete",
		zap.Int("fetched", result.Fetched),
		zap.Int("imported", result.Imported),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("unmatched", result.Unmatched),
		zap.Int("skipped", result.TotalSkipped()),
	)
	return result, nil
}

// importEvent logs one report per matched employee. The source id pairs
// the event with the employee so re-syncs never duplicate.
func (imp *CalendarImporter) importEvent(ctx context.Context, event *calendar.Event, result *ImportResult) error {
	start, err := time.Parse(time.RFC3339, event.Start.DateTime)
	if err != nil {
		result.Skipped["unparseable start time"]++
		return nil
	}
	if start.After(imp.now()) {
		result.Skipped[futureEventReason]++
		return nil
	}

	matched := false
	seen := map[uuid.UUID]bool{}
	for _, attendee := range event.Attendees {
		if attendee.Self || attendee.Email == "" {
			continue
		}
		employees, err := imp.store.FindEmployeeByEmail(ctx, imp.userID, attendee.Email)
		if err != nil {
			return err
		}
		for _, emp := range employees {
			if seen[emp.ID] {
				continue
			}
			seen[emp.ID] = true
			matched = true

			in := reportForEvent(event, start)
			in.Target = models.ReportTarget{Kind: models.TargetEmployee, ID: emp.ID}
			_, created, err := imp.store.ImportReport(ctx, imp.userID, CalendarService, event.Id+":"+emp.ID.String(), in)
			if err != nil {
				return fmt.Errorf("failed to import event %s: %w", event.Id, err)
			}
			if created {
				result.Imported++
			} else {
				result.Duplicates++
			}
		}
	}
	if !matched {
		result.Unmatched++
	}
	return nil
}

// shouldSkipEvent returns (true, reason) for events that are not
// meetings with someone else.
func shouldSkipEvent(event *calendar.Event) (bool, string) {
	if event == nil {
		return true, "nil event"
	}
	if event.Status == "cancelled" {
		return true, "cancelled"
	}
	if event.Start == nil {
		return true, "missing start time"
	}
	// All-day events carry Date instead of DateTime.
	if event.Start.Date != "" {
		return true, "all-day event"
	}
	for _, attendee := range event.Attendees {
		if attendee.Self && attendee.ResponseStatus == "declined" {
			return true, "declined"
		}
	}
	if n := len(event.Attendees); n <= 1 {
		return true, fmt.Sprintf("solo event (%d attendee%s)", n, pluralize(n))
	}
	return false, ""
}

// callTypeForEvent classifies video meetings as teams, located
// meetings as field visits, and everything else as other.
func callTypeForEvent(event *calendar.Event) models.CallType {
	if event.ConferenceData != nil || event.HangoutLink != "" {
		return models.CallTypeTeams
	}
	if strings.TrimSpace(event.Location) != "" {
		return models.CallTypeFOV
	}
	return models.CallTypeOther
}

func reportForEvent(event *calendar.Event, start time.Time) models.ReportInput {
	subject := strings.TrimSpace(event.Summary)

	var content strings.Builder
	if subject != "" {
		content.WriteString(subject)
	} else {
		content.WriteString("Calendar meeting")
	}
	if loc := strings.TrimSpace(event.Location); loc != "" {
		content.WriteString(" @ " + loc)
	}
	if desc := strings.TrimSpace(event.Description); desc != "" {
		content.WriteString("\n\n" + desc)
	}

	text := content.String()
	if runes := []rune(text); len(runes) > maxContentLength {
		text = string(runes[:maxContentLength])
	}

	return models.ReportInput{
		Subject:   subject,
		Content:   text,
		CallType:  callTypeForEvent(event),
		CreatedAt: &start,
	}
}

func isGone(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusGone
}

func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
