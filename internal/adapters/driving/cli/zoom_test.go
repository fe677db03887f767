package cli

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/switchboard/internal/core/domain"
)

func TestZoomMeetingsCreate_ReadsStartInTimezone(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /zoom/users/me/meetings", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Standup", body["topic"])
		assert.Equal(t, "2026-10-14T07:30:00Z", body["start_time"])
		assert.Equal(t, "Europe/Berlin", body["timezone"])
		assert.Equal(t, float64(15), body["duration"])
		w.WriteHeader(http.StatusCreated)
		writeJSON(t, w, map[string]any{"id": 85123456789, "topic": "Standup", "duration": 15})
	})
	env := newTestEnv(t, mux)

	stdout, _, err := env.run("zoom", "meetings", "create",
		"--topic", "Standup", "--start", "2026-10-14T09:30", "--timezone", "Europe/Berlin", "--duration", "15")

	require.NoError(t, err)
	assert.Contains(t, stdout, `"id": 85123456789`)
	records := env.history(t)
	require.Len(t, records, 1)
	assert.Equal(t, "meeting.create", records[0].Action)
	assert.Equal(t, "85123456789", records[0].ResourceID)
}

func TestZoomMeetingsCreate_BadTimezone(t *testing.T) {
	env := newTestEnv(t, nil)

	_, _, err := env.run("zoom", "meetings", "create", "--topic", "x", "--start", "2026-10-14", "--timezone", "Mars/Olympus")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestZoomMeetingsDelete_NormalisesID(t *testing.T) {
	deleted := false
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /zoom/meetings/85123456789", func(w http.ResponseWriter, _ *http.Request) {
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	})
	env := newTestEnv(t, mux)

	stdout, _, err := env.run("zoom", "meetings", "delete", "851 2345 6789")

	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, "Deleted meeting 85123456789\n", stdout)
	assert.Equal(t, []string{"Delete meeting 85123456789?"}, env.confirmer.prompts)
}

func TestZoomMeetingsList_APIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /zoom/users/me/meetings", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":300,"message":"Invalid type"}`))
	})
	env := newTestEnv(t, mux)

	_, _, err := env.run("zoom", "meetings", "list", "--type", "bogus")

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusCode(err))
}
