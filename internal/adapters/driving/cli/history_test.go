package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/switchboard/internal/core/domain"
)

func seedHistory() {
	ctx := context.Background()
	services.Activity.Record(ctx, domain.VendorZoom, "meeting.create", "851", "Standup")
	services.Activity.Record(ctx, domain.VendorX, "tweet.post", "101", "hello")
	services.Activity.Record(ctx, domain.VendorZoom, "meeting.delete", "851", "")
}

func TestHistory_FiltersByVendor(t *testing.T) {
	env := newTestEnv(t, nil)
	seedHistory()

	stdout, _, err := env.run("history", "--vendor", "ZOOM")
	require.NoError(t, err)

	var records []domain.ActivityRecord
	require.NoError(t, json.Unmarshal([]byte(stdout), &records))
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, domain.VendorZoom, r.Vendor)
	}
}

func TestHistory_Limit(t *testing.T) {
	env := newTestEnv(t, nil)
	seedHistory()

	stdout, _, err := env.run("history", "-n", "1")
	require.NoError(t, err)

	var records []domain.ActivityRecord
	require.NoError(t, json.Unmarshal([]byte(stdout), &records))
	assert.Len(t, records, 1)
}

func TestHistory_UnknownVendor(t *testing.T) {
	env := newTestEnv(t, nil)

	_, _, err := env.run("history", "--vendor", "slack")

	assert.ErrorIs(t, err, domain.ErrUnsupportedVendor)
}

func TestHistory_NegativeLimit(t *testing.T) {
	env := newTestEnv(t, nil)

	_, _, err := env.run("history", "--limit=-1")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistory_EmptyTable(t *testing.T) {
	env := newTestEnv(t, nil)

	stdout, _, err := env.run("history", "-o", "table")

	require.NoError(t, err)
	assert.Equal(t, "No results.\n", stdout)
}
