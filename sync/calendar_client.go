// ABOUTME: Google Calendar event source
// ABOUTME: Wraps the Calendar API events listing behind a small interface
package sync

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// maxResults is the Calendar API page size limit.
const maxResults = 250

// ListQuery selects one page of events. SyncToken and TimeMin are
// mutually exclusive; the API rejects ordering on token queries.
type ListQuery struct {
	TimeMin   time.Time
	SyncToken string
	PageToken string
}

// EventSource lists events of the primary calendar.
type EventSource interface {
	ListEvents(ctx context.Context, q ListQuery) (*calendar.Events, error)
}

// CalendarSource reads events through the Google Calendar API.
type CalendarSource struct {
	service *calendar.Service
}

// NewCalendarSource creates a Calendar API client from an OAuth token.
func NewCalendarSource(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token) (*CalendarSource, error) {
	if token == nil {
		return nil, fmt.Errorf("token cannot be nil")
	}

	service, err := calendar.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &CalendarSource{service: service}, nil
}

func (c *CalendarSource) ListEvents(ctx context.Context, q ListQuery) (*calendar.Events, error) {
	call := c.service.Events.List("primary").
		MaxResults(maxResults).
		SingleEvents(true).
		Context(ctx)

	if q.SyncToken != "" {
		call = call.SyncToken(q.SyncToken)
	} else {
		call = call.OrderBy("startTime").TimeMin(q.TimeMin.Format(time.RFC3339))
	}
	if q.PageToken != "" {
		call = call.PageToken(q.PageToken)
	}
	return call.Do()
}
