package inventory

import "context"

// Store persists one ledger per company. Save replaces the whole
// collection; callers run it inside a transaction together with the
// shipment writes that caused the change.
type Store interface {
	// Load retrieves the company's full batch collection.
	Load(ctx context.Context, companyID string) (Ledger, error)

	// Save replaces the company's batch collection.
	Save(ctx context.Context, companyID string, ledger Ledger) error
}
