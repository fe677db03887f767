package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/switchboard/internal/core/domain"
	"github.com/custodia-labs/switchboard/internal/core/ports/driven"
)

// activityStore implements driven.ActivityStore.
type activityStore struct {
	store *Store
}

var _ driven.ActivityStore = (*activityStore)(nil)

// Append records an activity.
func (s *activityStore) Append(ctx context.Context, record domain.ActivityRecord) error {
	if record.ID == "" {
		return fmt.Errorf("%w: activity id is required", domain.ErrInvalidInput)
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO activity (id, vendor, action, resource_id, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		record.ID,
		string(record.Vendor),
		record.Action,
		record.ResourceID,
		record.Detail,
		record.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("inserting activity: %w", err)
	}
	return nil
}

// List returns records newest first.
func (s *activityStore) List(ctx context.Context, filter domain.ActivityFilter) ([]domain.ActivityRecord, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = domain.DefaultActivityLimit
	}

	var (
		where []string
		args  []any
	)
	if filter.Vendor != "" {
		where = append(where, "vendor = ?")
		args = append(args, string(filter.Vendor))
	}

	query := "SELECT id, vendor, action, resource_id, detail, created_at FROM activity"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying activity: %w", err)
	}
	defer rows.Close()

	records := []domain.ActivityRecord{}
	for rows.Next() {
		var (
			r         domain.ActivityRecord
			vendor    string
			createdAt int64
		)
		if err := rows.Scan(&r.ID, &vendor, &r.Action, &r.ResourceID, &r.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		r.Vendor = domain.VendorID(vendor)
		r.CreatedAt = time.Unix(0, createdAt)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity: %w", err)
	}
	return records, nil
}

// Close closes the underlying database.
func (s *activityStore) Close() error {
	return s.store.Close()
}
