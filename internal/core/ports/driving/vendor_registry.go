package driving

import "github.com/custodia-labs/switchboard/internal/core/domain"

// VendorRegistry provides information about the supported vendors.
type VendorRegistry interface {
	// List returns all vendors in display order.
	List() []domain.Vendor

	// Get returns a vendor by ID.
	Get(id domain.VendorID) (domain.Vendor, error)
}
