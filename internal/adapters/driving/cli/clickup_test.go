package cli

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/switchboard/internal/core/domain"
)

func TestClickUpTasksCreate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /clickup/list/900/task", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ship it", body["name"])
		assert.Equal(t, float64(2), body["priority"])
		assert.Equal(t, float64(1767225600000), body["due_date"])
		assert.Equal(t, []any{"release"}, body["tags"])
		writeJSON(t, w, map[string]any{"id": "abc1", "name": "Ship it", "status": map[string]string{"status": "to do"}})
	})
	env := newTestEnv(t, mux)

	stdout, _, err := env.run("clickup", "tasks", "create", "900", "Ship it",
		"--priority", "2", "--due", "2026-01-01T00:00:00Z", "--tag", "release")

	require.NoError(t, err)
	assert.Contains(t, stdout, `"id": "abc1"`)
	records := env.history(t)
	require.Len(t, records, 1)
	assert.Equal(t, domain.VendorClickUp, records[0].Vendor)
	assert.Equal(t, "task.create", records[0].Action)
}

func TestClickUpTasksUpdate_SendsOnlyChangedFlags(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /clickup/task/abc1", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"status": "done"}, body)
		writeJSON(t, w, map[string]any{"id": "abc1", "name": "Ship it", "status": map[string]string{"status": "done"}})
	})
	env := newTestEnv(t, mux)

	_, _, err := env.run("clickup", "tasks", "update", "abc1", "--status", "done")

	require.NoError(t, err)
	require.Len(t, env.history(t), 1)
	assert.Equal(t, "task.update", env.history(t)[0].Action)
}

func TestClickUpTasksUpdate_NothingToUpdate(t *testing.T) {
	env := newTestEnv(t, nil)

	_, _, err := env.run("clickup", "tasks", "update", "abc1")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestClickUpLists_NeedsFolderOrSpace(t *testing.T) {
	env := newTestEnv(t, nil)

	_, _, err := env.run("clickup", "lists")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pass either a folder ID or --space")
}

func TestClickUpTasksDelete_ConfirmationRequired(t *testing.T) {
	env := newTestEnv(t, nil)
	env.confirmer.answer = domain.ErrConfirmationRequired

	_, _, err := env.run("clickup", "tasks", "delete", "abc1")

	assert.ErrorIs(t, err, domain.ErrConfirmationRequired)
	assert.Empty(t, env.history(t))
}
