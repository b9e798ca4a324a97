// Package customer provides the company-scoped customer catalog.
package customer

import "context"

// Customer is one catalog entry. ID is caller-assigned (a customer
// code, not a UUID) and unique within the company.
type Customer struct {
	ID        string `db:"id" json:"id"`
	ShortName string `db:"short_name" json:"shortName"`
	Name      string `db:"name" json:"name"`
	Contact   string `db:"contact" json:"contact"`
	Phone     string `db:"phone" json:"phone"`
	Email     string `db:"email" json:"email"`
}

// Store persists one customer collection per company.
type Store interface {
	// Load retrieves the company's customers.
	Load(ctx context.Context, companyID string) ([]Customer, error)

	// Save replaces the company's customer collection.
	Save(ctx context.Context, companyID string, customers []Customer) error
}
