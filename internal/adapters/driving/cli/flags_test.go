package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/switchboard/internal/core/domain"
)

func TestParseTimeIn(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	tests := []struct {
		value string
		want  time.Time
	}{
		{"2026-10-14T09:30:00Z", time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)},
		{"2026-10-14T09:30", time.Date(2026, 10, 14, 9, 30, 0, 0, berlin)},
		{"2026-10-14 09:30", time.Date(2026, 10, 14, 9, 30, 0, 0, berlin)},
		{"2026-10-14", time.Date(2026, 10, 14, 0, 0, 0, 0, berlin)},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := parseTimeIn("start", tt.value, berlin)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseTime_Invalid(t *testing.T) {
	_, err := parseTime("from", "next tuesday")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "--from")
}

func TestParseKeyValues(t *testing.T) {
	got, err := parseKeyValues("prop", []string{"email=ada@example.com", " stage =won", "note=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"email": "ada@example.com", "stage": "won", "note": "a=b"}, got)

	_, err = parseKeyValues("prop", []string{"novalue"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = parseKeyValues("prop", []string{"=x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "line one …", truncate("line one\nline two", 10))
	assert.Equal(t, "héllo", truncate("héllo", 5))
	assert.Equal(t, "hé…", truncate("héllo", 3))
}

func TestFormatTime(t *testing.T) {
	assert.Empty(t, formatTime(nil))
	assert.Empty(t, formatTime(&time.Time{}))

	ts := time.Date(2026, 1, 2, 3, 4, 0, 0, time.Local)
	assert.Equal(t, "2026-01-02 03:04", formatTime(&ts))
}
