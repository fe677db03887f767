package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/switchboard/internal/core/domain"
)

func newToolServer(t *testing.T, mux *http.ServeMux, maxPages int) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Clients: newFakeClients(t, mux), MaxPages: maxPages})
	require.NoError(t, err)
	return server
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func TestServer_handleXSearch(t *testing.T) {
	ctx := context.Background()
	mux := http.NewServeMux()
	mux.HandleFunc("/x/tweets/search/recent", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "golang -is:retweet", r.URL.Query().Get("query"))
		assert.Equal(t, "10", r.URL.Query().Get("max_results"))
		writeJSON(w, `{"data":[{"id":"1","text":"hi","author_id":"7","created_at":"2026-01-02T03:04:05.000Z",
			"public_metrics":{"like_count":3}}],"meta":{"result_count":1,"next_token":"n2"}}`)
	})
	server := newToolServer(t, mux, 1)

	_, output, err := server.handleXSearch(ctx, nil, XSearchInput{Query: "golang -is:retweet"})

	require.NoError(t, err)
	assert.Equal(t, 1, output.Count)
	assert.True(t, output.Truncated)
	assert.Equal(t, "n2", output.NextCursor)
	assert.Equal(t, TweetOutput{ID: "1", Text: "hi", AuthorID: "7", CreatedAt: "2026-01-02T03:04:05Z", Likes: 3}, output.Items[0])
}

func TestServer_handleXSearch_ValidatesQuery(t *testing.T) {
	server := newToolServer(t, http.NewServeMux(), 0)

	_, _, err := server.handleXSearch(context.Background(), nil, XSearchInput{Query: " "})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestServer_handleZoomMeetings(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/zoom/users/me/meetings", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "upcoming", r.URL.Query().Get("type"))
		writeJSON(w, `{"meetings":[{"id":85746065432,"topic":"Standup","start_time":"2026-02-01T09:00:00Z",
			"duration":15,"join_url":"https://zoom.us/j/85746065432"}]}`)
	})
	server := newToolServer(t, mux, 0)

	_, output, err := server.handleZoomMeetings(context.Background(), nil, ZoomMeetingsInput{Type: "upcoming"})

	require.NoError(t, err)
	require.Len(t, output.Items, 1)
	assert.Equal(t, int64(85746065432), output.Items[0].ID)
	assert.Equal(t, "2026-02-01T09:00:00Z", output.Items[0].StartTime)
	assert.False(t, output.Truncated)
}

func TestServer_handleClickUpTasks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/clickup/list/L1/task", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, []string{"open"}, r.URL.Query()["statuses[]"])
		writeJSON(w, `{"tasks":[{"id":"t1","name":"Ship","status":{"status":"open"},
			"priority":{"id":"2","priority":"high"},"due_date":"1767225600000","url":"https://app.clickup.com/t/t1"}],
			"last_page":true}`)
	})
	server := newToolServer(t, mux, 0)

	_, output, err := server.handleClickUpTasks(context.Background(), nil, ClickUpTasksInput{ListID: "L1", Statuses: []string{"open"}})

	require.NoError(t, err)
	require.Len(t, output.Items, 1)
	assert.Equal(t, TaskOutput{
		ID:       "t1",
		Name:     "Ship",
		Status:   "open",
		Priority: "high",
		DueDate:  "2026-01-01T00:00:00Z",
		URL:      "https://app.clickup.com/t/t1",
	}, output.Items[0])
}

func TestServer_handleHubSpotSearch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/hubspot/crm/v3/objects/contacts/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada", body["query"])
		writeJSON(w, `{"results":[{"id":"51","properties":{"email":"ada@example.com"},
			"updatedAt":"2026-03-04T05:06:07Z"},{"id":"52"}]}`)
	})
	server := newToolServer(t, mux, 0)

	_, output, err := server.handleHubSpotSearch(context.Background(), nil, HubSpotSearchInput{Object: "contact", Query: "ada"})

	require.NoError(t, err)
	require.Len(t, output.Items, 2)
	assert.Equal(t, "ada@example.com", output.Items[0].Properties["email"])
	assert.Equal(t, "2026-03-04T05:06:07Z", output.Items[0].UpdatedAt)
	assert.NotNil(t, output.Items[1].Properties)
	assert.Empty(t, output.Items[1].UpdatedAt)
}

func TestServer_handleHubSpotSearch_InvalidObject(t *testing.T) {
	server := newToolServer(t, http.NewServeMux(), 0)

	_, _, err := server.handleHubSpotSearch(context.Background(), nil, HubSpotSearchInput{Object: "invoices", Query: "x"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestServer_handleMondayItems(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/monday", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"data":{"boards":[{"items_page":{"cursor":"","items":[{"id":"9","name":"Launch",
			"group":{"id":"topics","title":"This week"},
			"column_values":[{"id":"status","type":"status","text":"Working on it","value":"{\"index\":0}"}]}]}}]}}`)
	})
	server := newToolServer(t, mux, 0)

	_, output, err := server.handleMondayItems(context.Background(), nil, MondayItemsInput{BoardID: "123"})

	require.NoError(t, err)
	require.Len(t, output.Items, 1)
	assert.Equal(t, MondayItemOutput{
		ID:      "9",
		Name:    "Launch",
		Group:   "This week",
		Columns: map[string]string{"status": "Working on it"},
	}, output.Items[0])
}

func TestServer_handleDriveSearch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/google/", func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/files"), r.URL.Path)
		assert.Equal(t, "name contains 'plan' and trashed = false", r.URL.Query().Get("q"))
		writeJSON(w, `{"files":[{"id":"f1","name":"plan.md","mimeType":"text/markdown",
			"webViewLink":"https://drive.google.com/file/d/f1/view"}]}`)
	})
	server := newToolServer(t, mux, 0)

	_, output, err := server.handleDriveSearch(context.Background(), nil, DriveSearchInput{Query: "plan"})

	require.NoError(t, err)
	require.Len(t, output.Items, 1)
	assert.Equal(t, "text/markdown", output.Items[0].MimeType)
	assert.Equal(t, "https://drive.google.com/file/d/f1/view", output.Items[0].Link)
}

func TestServer_Tools_ClientError(t *testing.T) {
	clients := &fakeClients{err: errors.New("missing credentials for zoom")}
	server, err := NewServer(&Ports{Clients: clients})
	require.NoError(t, err)

	_, _, err = server.handleZoomMeetings(context.Background(), nil, ZoomMeetingsInput{})
	assert.EqualError(t, err, "missing credentials for zoom")

	_, _, err = server.handleDriveSearch(context.Background(), nil, DriveSearchInput{Query: "x"})
	assert.EqualError(t, err, "missing credentials for zoom")
}
