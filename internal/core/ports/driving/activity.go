package driving

import (
	"context"

	"github.com/custodia-labs/switchboard/internal/core/domain"
)

// ActivityService records and lists mutating vendor calls.
type ActivityService interface {
	// Record stores an activity. Failures to record never fail the caller's
	// operation; they are logged and swallowed.
	Record(ctx context.Context, vendor domain.VendorID, action, resourceID, detail string)

	// Recent returns recent records, newest first.
	Recent(ctx context.Context, filter domain.ActivityFilter) ([]domain.ActivityRecord, error)
}
