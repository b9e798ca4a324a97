// Package sequence issues pick-order numbers.
package sequence

import (
	"context"
	"strconv"
	"strings"

	"pickstock/internal/core/apperror"
	"pickstock/internal/domain"
	"pickstock/pkg/logger"
)

// DefaultFloor seeds numbering for a company with no history.
const DefaultFloor = 230000

// maxAttempts bounds collision retries.
const maxAttempts = 5

// Store persists the per-company high-water mark. Save is
// compare-and-set: it fails with a SequenceCollision error when the
// stored value no longer equals prev, which is how concurrent
// generators in separate processes detect each other.
type Store interface {
	// LoadHighWaterMark returns the persisted mark, 0 when none exists.
	LoadHighWaterMark(ctx context.Context, companyID string) (int64, error)

	// SaveHighWaterMark replaces prev with next atomically.
	SaveHighWaterMark(ctx context.Context, companyID string, prev, next int64) error
}

// OrderSource lists the stored pick-order numbers for a company. The
// shipment store implements it; the generator scans them so numbering
// survives even if the mark was lost or restored from older data.
type OrderSource interface {
	PickOrderNumbers(ctx context.Context, companyID string) ([]string, error)
}

// Generator computes the next pick-order number for a company.
type Generator struct {
	store  Store
	orders OrderSource
	locks  *domain.CompanyLocks
}

// NewGenerator creates a Generator.
func NewGenerator(store Store, orders OrderSource, locks *domain.CompanyLocks) *Generator {
	return &Generator{store: store, orders: orders, locks: locks}
}

// Next returns a fresh pick-order base number for the company.
//
// The candidate is max(highest stored base number, persisted mark,
// floor) + 1 and is persisted before it is returned, so a crash after
// Next but before the shipment lands can waste a number but never
// reuse one. Collisions rerun the computation a bounded number of
// times and then fail rather than hand out a duplicate.
func (g *Generator) Next(ctx context.Context, companyID string) (int64, error) {
	g.locks.Lock(companyID)
	defer g.locks.Unlock(companyID)

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		mark, err := g.store.LoadHighWaterMark(ctx, companyID)
		if err != nil {
			return 0, err
		}

		numbers, err := g.orders.PickOrderNumbers(ctx, companyID)
		if err != nil {
			return 0, err
		}

		highest := int64(DefaultFloor)
		if mark > highest {
			highest = mark
		}
		for _, no := range numbers {
			if base := BaseNumber(no); base > highest {
				highest = base
			}
		}
		candidate := highest + 1

		if err := g.store.SaveHighWaterMark(ctx, companyID, mark, candidate); err != nil {
			if apperror.IsSequenceCollision(err) {
				lastErr = err
				logger.Warn(ctx, "pick order number collision, recomputing",
					"company_id", companyID,
					"candidate", candidate,
					"attempt", attempt+1,
				)
				continue
			}
			return 0, err
		}
		return candidate, nil
	}
	return 0, lastErr
}

// BaseNumber extracts the integer before any "-n" revision suffix.
// Non-numeric or empty bases count as 0.
func BaseNumber(pickOrderNo string) int64 {
	base, _, _ := strings.Cut(pickOrderNo, "-")
	n, err := strconv.ParseInt(strings.TrimSpace(base), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
