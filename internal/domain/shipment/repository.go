package shipment

import (
	"context"
	"strings"
	"time"
)

// Store persists one order collection per company. Save replaces the
// whole collection so an operation's shipment and ledger writes land
// in the same transaction or not at all.
type Store interface {
	// Load retrieves the company's orders, newest first.
	Load(ctx context.Context, companyID string) ([]Order, error)

	// Save replaces the company's order collection.
	Save(ctx context.Context, companyID string, orders []Order) error

	// PickOrderNumbers lists all stored pick-order numbers. The
	// sequence generator scans these when computing the next number.
	PickOrderNumbers(ctx context.Context, companyID string) ([]string, error)
}

// ListFilter narrows the shipment list.
type ListFilter struct {
	Status     *Status
	CustomerID string
	PreparedBy string
	ApprovedBy string
	From       *time.Time
	To         *time.Time

	// Search matches pick-order number or customer name, case-insensitive.
	Search string
}

// Matches reports whether the order passes the filter.
func (f ListFilter) Matches(o Order) bool {
	if f.Status != nil && o.Status != *f.Status {
		return false
	}
	if f.CustomerID != "" && o.CustomerInfo.ID != f.CustomerID {
		return false
	}
	if f.PreparedBy != "" && o.Footer.PreparedBy != f.PreparedBy {
		return false
	}
	if f.ApprovedBy != "" && o.Footer.ApprovedBy != f.ApprovedBy {
		return false
	}
	if f.From != nil && o.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && o.CreatedAt.After(*f.To) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(o.PickOrderNo), needle) &&
			!strings.Contains(strings.ToLower(o.CustomerInfo.Name), needle) &&
			!strings.Contains(strings.ToLower(o.CustomerInfo.ShortName), needle) {
			return false
		}
	}
	return true
}
