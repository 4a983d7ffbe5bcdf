package calendar

import (
	calendar "google.golang.org/api/calendar/v3"
)

// Event is the normalized representation of a calendar event. Start and
// End carry the provider's dateTime value for timed events and the date
// value for all-day events, unchanged.
type Event struct {
	ID          string   `json:"id"`
	Summary     string   `json:"summary"`
	Start       string   `json:"start"`
	End         string   `json:"end"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	Attendees   []string `json:"attendees,omitempty"`
	HTMLLink    string   `json:"html_link,omitempty"`
	ColorID     string   `json:"color_id,omitempty"`
}

// normalizeEvent converts a provider event into an Event.
func normalizeEvent(ev *calendar.Event) Event {
	e := Event{
		ID:          ev.Id,
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		HTMLLink:    ev.HtmlLink,
		ColorID:     ev.ColorId,
	}
	if e.Summary == "" {
		e.Summary = "No Title"
	}
	e.Start = eventTime(ev.Start)
	e.End = eventTime(ev.End)
	for _, a := range ev.Attendees {
		if a.Email != "" {
			e.Attendees = append(e.Attendees, a.Email)
		}
	}
	return e
}

// eventTime picks the timed value when present, otherwise the all-day
// date value.
func eventTime(t *calendar.EventDateTime) string {
	if t == nil {
		return ""
	}
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}

func normalizeEvents(items []*calendar.Event) []Event {
	events := make([]Event, 0, len(items))
	for _, ev := range items {
		events = append(events, normalizeEvent(ev))
	}
	return events
}
