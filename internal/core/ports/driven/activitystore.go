package driven

import (
	"context"

	"github.com/custodia-labs/switchboard/internal/core/domain"
)

// ActivityStore persists the history of mutating vendor calls.
type ActivityStore interface {
	// Append records an activity.
	Append(ctx context.Context, record domain.ActivityRecord) error

	// List returns records newest first, narrowed by the filter.
	List(ctx context.Context, filter domain.ActivityFilter) ([]domain.ActivityRecord, error)

	// Close releases any held resources.
	Close() error
}
