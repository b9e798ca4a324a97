package inventory

import (
	"context"
	"sort"

	"pickstock/internal/core/apperror"
	"pickstock/internal/core/id"
	"pickstock/internal/core/tx"
	"pickstock/internal/domain"
	"pickstock/pkg/logger"
	"pickstock/pkg/natsort"
)

// Service manages manual batch maintenance and imports. Allocation-side
// ledger mutation (deduct on confirm, restock on cancel) lives in the
// shipment service; this one covers the stock-keeping surface.
type Service struct {
	store     Store
	txManager tx.Manager
	locks     *domain.CompanyLocks
}

// NewService creates the inventory service.
func NewService(store Store, txManager tx.Manager, locks *domain.CompanyLocks) *Service {
	return &Service{store: store, txManager: txManager, locks: locks}
}

// List returns the company's full batch collection.
func (s *Service) List(ctx context.Context, companyID string) (Ledger, error) {
	return s.store.Load(ctx, companyID)
}

// Get returns a single batch by id.
func (s *Service) Get(ctx context.Context, companyID string, batchID id.ID) (Batch, error) {
	ledger, err := s.store.Load(ctx, companyID)
	if err != nil {
		return Batch{}, err
	}
	b := ledger.FindByID(batchID)
	if b == nil {
		return Batch{}, apperror.NewNotFound("batch", batchID)
	}
	return *b, nil
}

// Upsert creates a batch (nil id) or replaces an existing one.
func (s *Service) Upsert(ctx context.Context, companyID string, batch Batch) (Batch, error) {
	if batch.PartNumber == "" {
		return Batch{}, apperror.NewValidation("part number is required")
	}
	if batch.Quantity < 0 {
		return Batch{}, apperror.NewValidation("quantity must not be negative")
	}

	s.locks.Lock(companyID)
	defer s.locks.Unlock(companyID)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		ledger, err := s.store.Load(ctx, companyID)
		if err != nil {
			return err
		}
		next := ledger.Clone()

		if id.IsNil(batch.ID) {
			batch.ID = id.New()
			next = append(next, batch)
		} else {
			existing := next.FindByID(batch.ID)
			if existing == nil {
				return apperror.NewNotFound("batch", batch.ID)
			}
			*existing = batch
		}
		return s.store.Save(ctx, companyID, next)
	})
	if err != nil {
		return Batch{}, err
	}

	logger.Info(ctx, "batch saved",
		"batch_id", batch.ID,
		"part_number", batch.PartNumber,
		"quantity", batch.Quantity,
	)
	return batch, nil
}

// Delete removes a batch permanently. Zero-quantity batches are kept
// unless deleted here explicitly.
func (s *Service) Delete(ctx context.Context, companyID string, batchID id.ID) error {
	s.locks.Lock(companyID)
	defer s.locks.Unlock(companyID)

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		ledger, err := s.store.Load(ctx, companyID)
		if err != nil {
			return err
		}
		next := make(Ledger, 0, len(ledger))
		found := false
		for _, b := range ledger {
			if b.ID == batchID {
				found = true
				continue
			}
			next = append(next, b)
		}
		if !found {
			return apperror.NewNotFound("batch", batchID)
		}
		return s.store.Save(ctx, companyID, next)
	})
}

// ImportResult reports what an import did to the ledger.
type ImportResult struct {
	Added  int `json:"added"`
	Merged int `json:"merged"`
}

// Import merges normalized rows into the ledger. A row matching an
// existing (partNumber, dateCode, lot) adds its quantity to the first
// such batch; unmatched rows append as new batches.
func (s *Service) Import(ctx context.Context, companyID string, rows []Batch) (ImportResult, error) {
	var result ImportResult
	for _, row := range rows {
		if row.PartNumber == "" {
			return ImportResult{}, apperror.NewValidation("import row without part number")
		}
		if row.Quantity < 0 {
			return ImportResult{}, apperror.NewValidation("import row with negative quantity")
		}
	}

	s.locks.Lock(companyID)
	defer s.locks.Unlock(companyID)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		ledger, err := s.store.Load(ctx, companyID)
		if err != nil {
			return err
		}
		next := ledger.Clone()
		result = ImportResult{}

		for _, row := range rows {
			if existing := next.FindByKey(row.Key()); existing != nil {
				existing.Quantity += row.Quantity
				result.Merged++
				continue
			}
			if id.IsNil(row.ID) {
				row.ID = id.New()
			}
			next = append(next, row)
			result.Added++
		}
		return s.store.Save(ctx, companyID, next)
	})
	if err != nil {
		return ImportResult{}, err
	}

	logger.Info(ctx, "batches imported",
		"rows", len(rows),
		"added", result.Added,
		"merged", result.Merged,
	)
	return result, nil
}

// Summary aggregates a part number's batches for display.
type Summary struct {
	PartNumber    string `json:"partNumber"`
	BatchCount    int    `json:"batchCount"`
	TotalQuantity int    `json:"totalQuantity"`
}

// Summaries returns per-part batch counts and quantity totals, sorted
// by part number with numeric-aware order.
func (s *Service) Summaries(ctx context.Context, companyID string) ([]Summary, error) {
	ledger, err := s.store.Load(ctx, companyID)
	if err != nil {
		return nil, err
	}

	byPart := make(map[string]*Summary)
	for _, b := range ledger {
		sum, ok := byPart[b.PartNumber]
		if !ok {
			sum = &Summary{PartNumber: b.PartNumber}
			byPart[b.PartNumber] = sum
		}
		sum.BatchCount++
		sum.TotalQuantity += b.Quantity
	}

	out := make([]Summary, 0, len(byPart))
	for _, sum := range byPart {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool {
		return natsort.Less(out[i].PartNumber, out[j].PartNumber)
	})
	return out, nil
}
