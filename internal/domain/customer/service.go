package customer

import (
	"context"

	"pickstock/internal/core/apperror"
	"pickstock/internal/core/tx"
	"pickstock/internal/domain"
	"pickstock/pkg/logger"
)

// Service manages the customer catalog.
type Service struct {
	store     Store
	txManager tx.Manager
	locks     *domain.CompanyLocks
}

// NewService creates the customer service.
func NewService(store Store, txManager tx.Manager, locks *domain.CompanyLocks) *Service {
	return &Service{store: store, txManager: txManager, locks: locks}
}

// List returns the company's customers.
func (s *Service) List(ctx context.Context, companyID string) ([]Customer, error) {
	return s.store.Load(ctx, companyID)
}

// Get returns one customer by id.
func (s *Service) Get(ctx context.Context, companyID, customerID string) (Customer, error) {
	customers, err := s.store.Load(ctx, companyID)
	if err != nil {
		return Customer{}, err
	}
	for _, c := range customers {
		if c.ID == customerID {
			return c, nil
		}
	}
	return Customer{}, apperror.NewNotFound("customer", customerID)
}

// Create adds a new customer. The id must not be taken.
func (s *Service) Create(ctx context.Context, companyID string, c Customer) (Customer, error) {
	if c.ID == "" {
		return Customer{}, apperror.NewValidation("customer id is required")
	}
	if c.Name == "" && c.ShortName == "" {
		return Customer{}, apperror.NewValidation("customer name is required")
	}

	s.locks.Lock(companyID)
	defer s.locks.Unlock(companyID)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		customers, err := s.store.Load(ctx, companyID)
		if err != nil {
			return err
		}
		if findCustomer(customers, c.ID) >= 0 {
			return apperror.NewDuplicate("customer", "id", c.ID)
		}
		return s.store.Save(ctx, companyID, append(customers, c))
	})
	if err != nil {
		return Customer{}, err
	}
	return c, nil
}

// Update replaces an existing customer.
func (s *Service) Update(ctx context.Context, companyID string, c Customer) (Customer, error) {
	s.locks.Lock(companyID)
	defer s.locks.Unlock(companyID)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		customers, err := s.store.Load(ctx, companyID)
		if err != nil {
			return err
		}
		idx := findCustomer(customers, c.ID)
		if idx < 0 {
			return apperror.NewNotFound("customer", c.ID)
		}
		next := append([]Customer(nil), customers...)
		next[idx] = c
		return s.store.Save(ctx, companyID, next)
	})
	if err != nil {
		return Customer{}, err
	}
	return c, nil
}

// Delete removes a customer. Shipments keep their embedded customer
// snapshot regardless.
func (s *Service) Delete(ctx context.Context, companyID, customerID string) error {
	s.locks.Lock(companyID)
	defer s.locks.Unlock(companyID)

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		customers, err := s.store.Load(ctx, companyID)
		if err != nil {
			return err
		}
		idx := findCustomer(customers, customerID)
		if idx < 0 {
			return apperror.NewNotFound("customer", customerID)
		}
		next := make([]Customer, 0, len(customers)-1)
		for i, c := range customers {
			if i == idx {
				continue
			}
			next = append(next, c)
		}
		return s.store.Save(ctx, companyID, next)
	})
}

// ImportResult reports what an import did to the catalog.
type ImportResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// Import merges normalized rows into the catalog. Rows whose id is
// already taken are skipped, not overwritten.
func (s *Service) Import(ctx context.Context, companyID string, rows []Customer) (ImportResult, error) {
	for _, row := range rows {
		if row.ID == "" {
			return ImportResult{}, apperror.NewValidation("import row without customer id")
		}
	}

	s.locks.Lock(companyID)
	defer s.locks.Unlock(companyID)

	var result ImportResult
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		customers, err := s.store.Load(ctx, companyID)
		if err != nil {
			return err
		}
		next := append([]Customer(nil), customers...)
		result = ImportResult{}

		for _, row := range rows {
			if findCustomer(next, row.ID) >= 0 {
				result.Skipped++
				continue
			}
			next = append(next, row)
			result.Added++
		}
		return s.store.Save(ctx, companyID, next)
	})
	if err != nil {
		return ImportResult{}, err
	}

	logger.Info(ctx, "customers imported",
		"rows", len(rows),
		"added", result.Added,
		"skipped", result.Skipped,
	)
	return result, nil
}

func findCustomer(customers []Customer, customerID string) int {
	for i := range customers {
		if customers[i].ID == customerID {
			return i
		}
	}
	return -1
}
