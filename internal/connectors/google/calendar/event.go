package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/custodia-labs/switchboard/internal/connectors/google"
	"github.com/custodia-labs/switchboard/internal/connectors/rest"
	"github.com/custodia-labs/switchboard/internal/core/domain"
)

// Primary is the calendar ID alias for the account's main calendar.
const Primary = "primary"

const dateLayout = "2006-01-02"

// Event is the subset of event data the CLI shows.
type Event struct {
	ID        string   `json:"id"`
	Summary   string   `json:"summary"`
	Start     string   `json:"start"`
	End       string   `json:"end"`
	Location  string   `json:"location,omitempty"`
	Status    string   `json:"status,omitempty"`
	HTMLLink  string   `json:"htmlLink,omitempty"`
	Organiser string   `json:"organiser,omitempty"`
	Attendees []string `json:"attendees,omitempty"`
}

// EventRequest creates an event.
type EventRequest struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	// AllDay uses the dates of Start and End. End is exclusive.
	AllDay    bool
	TimeZone  string
	Attendees []string
}

// Validate checks the summary and the time range.
func (r EventRequest) Validate() error {
	if strings.TrimSpace(r.Summary) == "" {
		return fmt.Errorf("%w: summary is required", domain.ErrInvalidInput)
	}
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", domain.ErrInvalidInput)
	}
	if !r.End.After(r.Start) {
		return fmt.Errorf("%w: end %s is not after start %s", domain.ErrInvalidInput,
			r.End.Format(time.RFC3339), r.Start.Format(time.RFC3339))
	}
	return nil
}

// Client wraps a Calendar service.
type Client struct {
	svc *calendar.Service
}

// New wraps svc.
func New(svc *calendar.Service) *Client {
	return &Client{svc: svc}
}

// Events lists single events between from and to, ordered by start time.
// Zero times leave that side of the window open.
func (c *Client) Events(ctx context.Context, calendarID string, from, to time.Time, opts rest.PageOptions) (*rest.Page[Event], error) {
	calendarID = defaultCalendar(calendarID)
	size := int64(opts.PageSize)
	if size <= 0 || size > 2500 {
		size = 250
	}

	return rest.Paginate(ctx, opts, func(ctx context.Context, cursor string) ([]Event, string, error) {
		call := c.svc.Events.List(calendarID).
			SingleEvents(true).
			OrderBy("startTime").
			MaxResults(size).
			Context(ctx)
		if !from.IsZero() {
			call = call.TimeMin(from.Format(time.RFC3339))
		}
		if !to.IsZero() {
			call = call.TimeMax(to.Format(time.RFC3339))
		}
		if cursor != "" {
			call = call.PageToken(cursor)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, "", fmt.Errorf("list events: %w", google.WrapError(err))
		}
		events := make([]Event, 0, len(resp.Items))
		for _, e := range resp.Items {
			events = append(events, fromCalendar(e))
		}
		return events, resp.NextPageToken, nil
	})
}

// CreateEvent creates an event and returns it.
func (c *Client) CreateEvent(ctx context.Context, calendarID string, req EventRequest) (*Event, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ev := &calendar.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Location:    req.Location,
		Start:       eventTime(req.Start, req.AllDay, req.TimeZone),
		End:         eventTime(req.End, req.AllDay, req.TimeZone),
	}
	for _, a := range req.Attendees {
		ev.Attendees = append(ev.Attendees, &calendar.EventAttendee{Email: a})
	}

	created, err := c.svc.Events.Insert(defaultCalendar(calendarID), ev).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("create event: %w", google.WrapError(err))
	}
	out := fromCalendar(created)
	return &out, nil
}

// DeleteEvent deletes an event.
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if strings.TrimSpace(eventID) == "" {
		return fmt.Errorf("%w: event id is required", domain.ErrInvalidInput)
	}
	if err := c.svc.Events.Delete(defaultCalendar(calendarID), eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete event %s: %w", eventID, google.WrapError(err))
	}
	return nil
}

func eventTime(t time.Time, allDay bool, tz string) *calendar.EventDateTime {
	if allDay {
		return &calendar.EventDateTime{Date: t.Format(dateLayout)}
	}
	return &calendar.EventDateTime{DateTime: t.Format(time.RFC3339), TimeZone: tz}
}

func defaultCalendar(id string) string {
	if strings.TrimSpace(id) == "" {
		return Primary
	}
	return id
}

func fromCalendar(e *calendar.Event) Event {
	start, end := extractEventTimes(e)
	out := Event{
		ID:        e.Id,
		Summary:   e.Summary,
		Start:     start,
		End:       end,
		Location:  e.Location,
		Status:    e.Status,
		HTMLLink:  e.HtmlLink,
		Organiser: organiserEmail(e),
	}
	for _, a := range e.Attendees {
		if a.DisplayName != "" {
			out.Attendees = append(out.Attendees, a.DisplayName)
		} else if a.Email != "" {
			out.Attendees = append(out.Attendees, a.Email)
		}
	}
	return out
}

// extractEventTimes returns the start and end as a date-time or, for
// all-day events, a date.
func extractEventTimes(event *calendar.Event) (startTime, endTime string) {
	if event.Start != nil {
		startTime = event.Start.DateTime
		if startTime == "" {
			startTime = event.Start.Date
		}
	}
	if event.End != nil {
		endTime = event.End.DateTime
		if endTime == "" {
			endTime = event.End.Date
		}
	}
	return startTime, endTime
}

func organiserEmail(event *calendar.Event) string {
	if event.Organizer != nil { //nolint:misspell // Google API field name
		return event.Organizer.Email //nolint:misspell // Google API field name
	}
	return ""
}
