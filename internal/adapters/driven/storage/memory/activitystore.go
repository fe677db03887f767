package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/switchboard/internal/core/domain"
	"github.com/custodia-labs/switchboard/internal/core/ports/driven"
)

// Ensure ActivityStore implements the interface.
var _ driven.ActivityStore = (*ActivityStore)(nil)

// ActivityStore keeps activity records for the lifetime of the process.
type ActivityStore struct {
	mu      sync.RWMutex
	records []domain.ActivityRecord
}

// NewActivityStore creates an empty in-memory activity store.
func NewActivityStore() *ActivityStore {
	return &ActivityStore{}
}

// Append records an activity.
func (s *ActivityStore) Append(_ context.Context, record domain.ActivityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// List returns records newest first.
func (s *ActivityStore) List(_ context.Context, filter domain.ActivityFilter) ([]domain.ActivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = domain.DefaultActivityLimit
	}

	result := make([]domain.ActivityRecord, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		r := s.records[i]
		if filter.Vendor != "" && r.Vendor != filter.Vendor {
			continue
		}
		result = append(result, r)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Close is a no-op.
func (s *ActivityStore) Close() error {
	return nil
}
