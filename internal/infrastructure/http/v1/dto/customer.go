package dto

import (
	"pickstock/internal/domain/customer"
)

// CustomerRequest creates or updates a catalog entry.
type CustomerRequest struct {
	ID        string `json:"id" binding:"required"`
	ShortName string `json:"shortName"`
	Name      string `json:"name"`
	Contact   string `json:"contact"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// ToCustomer maps the request to a domain customer.
func (r CustomerRequest) ToCustomer() customer.Customer {
	return customer.Customer{
		ID:        r.ID,
		ShortName: r.ShortName,
		Name:      r.Name,
		Contact:   r.Contact,
		Phone:     r.Phone,
		Email:     r.Email,
	}
}

// ImportCustomersRequest carries normalized rows for a catalog import.
type ImportCustomersRequest struct {
	Rows []CustomerRequest `json:"rows" binding:"required"`
}

// ToCustomers maps the rows to domain customers.
func (r ImportCustomersRequest) ToCustomers() []customer.Customer {
	customers := make([]customer.Customer, 0, len(r.Rows))
	for _, row := range r.Rows {
		customers = append(customers, row.ToCustomer())
	}
	return customers
}
