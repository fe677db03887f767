package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/switchboard/internal/core/domain"
)

// timeLayouts are accepted by time flags, most specific first.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTime reads a time flag. Values without an offset are local time.
func parseTime(name, value string) (time.Time, error) {
	return parseTimeIn(name, value, time.Local)
}

// parseTimeIn reads a time flag. Values without an offset are read in loc.
func parseTimeIn(name, value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: --%s %q, want RFC 3339 or YYYY-MM-DD[THH:MM]", domain.ErrInvalidInput, name, value)
}

// parseKeyValues reads repeated key=value flags.
func parseKeyValues(name string, pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: --%s %q, want key=value", domain.ErrInvalidInput, name, p)
		}
		out[k] = v
	}
	return out, nil
}

// formatTime renders an optional timestamp for tables.
func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

// truncate shortens s to n runes for table cells.
func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
