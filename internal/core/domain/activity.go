package domain

import "time"

// ActivityRecord is a mutation performed against a vendor API.
// Records are append-only; nothing is rolled back when a later step fails.
type ActivityRecord struct {
	ID         string    `json:"id"`
	Vendor     VendorID  `json:"vendor"`
	Action     string    `json:"action"`
	ResourceID string    `json:"resource_id"`
	Detail     string    `json:"detail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ActivityFilter narrows an activity listing.
type ActivityFilter struct {
	// Vendor limits results to one vendor when set.
	Vendor VendorID
	// Limit caps the number of records; zero means DefaultActivityLimit.
	Limit int
}

// DefaultActivityLimit is the number of records listed when no limit is given.
const DefaultActivityLimit = 50
