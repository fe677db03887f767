package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/switchboard/internal/connectors/google"
	"github.com/custodia-labs/switchboard/internal/connectors/rest"
	"github.com/custodia-labs/switchboard/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	session := google.NewSession(nil,
		google.WithEndpoint(server.URL+"/"),
		google.WithBaseTransport(server.Client().Transport),
		google.WithRateLimit(google.ServiceCalendar, google.RateLimitConfig{RequestsPerSecond: 1000, BurstSize: 100}),
	)
	svc, err := session.Calendar(context.Background())
	require.NoError(t, err)
	return New(svc)
}

func TestEventRequest_Validate(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		req     EventRequest
		wantErr bool
	}{
		{name: "valid", req: EventRequest{Summary: "Sync", Start: start, End: start.Add(time.Hour)}},
		{name: "missing summary", req: EventRequest{Start: start, End: start.Add(time.Hour)}, wantErr: true},
		{name: "missing end", req: EventRequest{Summary: "Sync", Start: start}, wantErr: true},
		{name: "end before start", req: EventRequest{Summary: "Sync", Start: start, End: start.Add(-time.Hour)}, wantErr: true},
		{name: "zero length", req: EventRequest{Summary: "Sync", Start: start, End: start}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestClient_Events(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/calendars/primary/events"), r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("singleEvents"))
		assert.Equal(t, "startTime", q.Get("orderBy"))
		assert.Equal(t, "2026-03-01T00:00:00Z", q.Get("timeMin"))
		assert.Equal(t, "2026-03-08T00:00:00Z", q.Get("timeMax"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"id":"e1","summary":"Standup","start":{"dateTime":"2026-03-02T09:00:00Z"},"end":{"dateTime":"2026-03-02T09:15:00Z"},
			 "organizer":{"email":"ada@example.com"},"attendees":[{"email":"bob@example.com"},{"email":"eve@example.com","displayName":"Eve"}]},
			{"id":"e2","summary":"Offsite","start":{"date":"2026-03-05"},"end":{"date":"2026-03-06"}}
		]}`))
	})

	page, err := c.Events(context.Background(), "", from, to, rest.PageOptions{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "2026-03-02T09:00:00Z", page.Items[0].Start)
	assert.Equal(t, "ada@example.com", page.Items[0].Organiser)
	assert.Equal(t, []string{"bob@example.com", "Eve"}, page.Items[0].Attendees)
	assert.Equal(t, "2026-03-05", page.Items[1].Start)
	assert.Equal(t, "2026-03-06", page.Items[1].End)
}

func TestClient_CreateEvent(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/calendars/team@example.com/events"), r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Planning", body["summary"])
		assert.Equal(t, map[string]any{"dateTime": "2026-03-02T10:00:00Z", "timeZone": "Europe/London"}, body["start"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"new1","summary":"Planning","start":{"dateTime":"2026-03-02T10:00:00Z"},"end":{"dateTime":"2026-03-02T11:00:00Z"},"htmlLink":"https://calendar.google.com/event?eid=new1"}`))
	})

	ev, err := c.CreateEvent(context.Background(), "team@example.com", EventRequest{
		Summary: "Planning", Start: start, End: start.Add(time.Hour), TimeZone: "Europe/London",
	})
	require.NoError(t, err)
	assert.Equal(t, "new1", ev.ID)
	assert.Equal(t, "https://calendar.google.com/event?eid=new1", ev.HTMLLink)
}

func TestClient_CreateEvent_AllDay(t *testing.T) {
	day := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"date": "2026-04-01"}, body["start"])
		assert.Equal(t, map[string]any{"date": "2026-04-02"}, body["end"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"d1"}`))
	})

	_, err := c.CreateEvent(context.Background(), "", EventRequest{
		Summary: "Holiday", Start: day, End: day.AddDate(0, 0, 1), AllDay: true,
	})
	require.NoError(t, err)
}

func TestClient_DeleteEvent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/calendars/primary/events/e1"), r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteEvent(context.Background(), "", "e1"))
	assert.ErrorIs(t, c.DeleteEvent(context.Background(), "", ""), domain.ErrInvalidInput)
}
