package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/switchboard/internal/core/domain"
	"github.com/custodia-labs/switchboard/internal/core/ports/driven"
	"github.com/custodia-labs/switchboard/internal/core/ports/driving"
	"github.com/custodia-labs/switchboard/internal/logger"
)

// Ensure ActivityService implements the interface.
var _ driving.ActivityService = (*ActivityService)(nil)

// ActivityService records mutating vendor calls.
type ActivityService struct {
	store driven.ActivityStore
	now   func() time.Time
}

// NewActivityService creates an activity service backed by store.
func NewActivityService(store driven.ActivityStore) *ActivityService {
	return &ActivityService{store: store, now: time.Now}
}

// Record stores an activity. A failing store is logged, never returned:
// the vendor call it describes has already happened.
func (s *ActivityService) Record(ctx context.Context, vendor domain.VendorID, action, resourceID, detail string) {
	record := domain.ActivityRecord{
		ID:         uuid.New().String(),
		Vendor:     vendor,
		Action:     action,
		ResourceID: resourceID,
		Detail:     detail,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.store.Append(ctx, record); err != nil {
		logger.Warn("record %s %s %s: %v", vendor, action, resourceID, err)
		return
	}
	logger.Debug("recorded %s %s %s", vendor, action, resourceID)
}

// Recent returns recent records, newest first.
func (s *ActivityService) Recent(ctx context.Context, filter domain.ActivityFilter) ([]domain.ActivityRecord, error) {
	if filter.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidInput)
	}
	if filter.Limit == 0 {
		filter.Limit = domain.DefaultActivityLimit
	}
	records, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return records, nil
}
