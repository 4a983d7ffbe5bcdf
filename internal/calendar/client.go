package calendar

import (
	"context"
	"log/slog"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/sriramramnath/EducationOS/internal/google"
	"github.com/sriramramnath/EducationOS/internal/logging"
)

// Client wraps the Google Calendar service for a single user. A client
// built without a credential is disconnected and every operation returns
// the empty result.
type Client struct {
	svc    *calendar.Service
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Calendar client from a resolved credential. A nil
// credential yields a disconnected client, as does a service
// construction failure.
func New(ctx context.Context, cred *google.Credential, logger *slog.Logger) *Client {
	c := &Client{
		logger: logging.WithService(logger, "calendar"),
		now:    time.Now,
	}
	if cred == nil {
		return c
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(cred.HTTPClient(ctx)))
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to build Calendar service", logging.Err(err))
		return c
	}
	c.svc = svc
	return c
}

// Connected reports whether the client is backed by a live Calendar
// service.
func (c *Client) Connected() bool {
	return c.svc != nil
}

// ListCalendars returns the user's calendar list entries as the provider
// reports them. Failures yield an empty slice.
func (c *Client) ListCalendars(ctx context.Context) []*calendar.CalendarListEntry {
	if !c.Connected() {
		return []*calendar.CalendarListEntry{}
	}

	res, err := c.svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to list calendars",
			logging.Operation("list_calendars"), logging.Err(err))
		return []*calendar.CalendarListEntry{}
	}
	return res.Items
}

// ListUpcoming returns up to maxResults normalized events from the
// primary calendar, starting now and looking daysAhead days into the
// future. Recurring events are expanded and results are ordered by start
// time.
func (c *Client) ListUpcoming(ctx context.Context, maxResults int64, daysAhead int) []Event {
	if !c.Connected() {
		return []Event{}
	}

	now := c.now()
	return c.listWindow(ctx, "list_upcoming", now, now.AddDate(0, 0, daysAhead), maxResults)
}

// ListForDate returns the normalized events of a single day on the
// primary calendar, from local midnight to the end of that day.
func (c *Client) ListForDate(ctx context.Context, date time.Time) []Event {
	if !c.Connected() {
		return []Event{}
	}

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Second)
	return c.listWindow(ctx, "list_for_date", start, end, 0)
}

func (c *Client) listWindow(ctx context.Context, op string, from, to time.Time, maxResults int64) []Event {
	call := c.svc.Events.List("primary").
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx)
	if maxResults > 0 {
		call = call.MaxResults(maxResults)
	}

	res, err := call.Do()
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to list events",
			logging.Operation(op), logging.Err(err))
		return []Event{}
	}
	return normalizeEvents(res.Items)
}
