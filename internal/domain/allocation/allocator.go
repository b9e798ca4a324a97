// Package allocation plans which batches satisfy a requested quantity.
// Planning is pure: it reads a ledger snapshot and never mutates it.
// The plan is re-validated against live stock at confirm time, which is
// where correctness is actually enforced.
package allocation

import (
	"sort"

	"pickstock/internal/core/id"
	"pickstock/internal/domain/inventory"
	"pickstock/pkg/natsort"
)

// Pick is one planned take from a batch. The batch is a snapshot copy;
// Available is its quantity net of reservations at planning time.
type Pick struct {
	Batch     inventory.Batch `json:"batch"`
	Quantity  int             `json:"quantity"`
	Available int             `json:"available"`
}

// Plan is an ordered set of picks plus whatever could not be covered.
type Plan struct {
	Picks     []Pick `json:"picks"`
	Shortfall int    `json:"shortfall"`
}

// Satisfied reports whether the request was fully covered.
func (p Plan) Satisfied() bool {
	return p.Shortfall == 0
}

// Reserved maps batch id to quantity already planned for the same draft,
// so adding two lines for one part in a session does not double-allocate.
type Reserved map[id.ID]int

// New plans requested units of partNumber from the snapshot.
//
// Batches with matching part number and quantity minus reservation
// above zero are sorted ascending by dateCode then lot, both compared
// as numeric-aware strings, then walked greedily taking
// min(remaining, available) from each. Equal keys keep snapshot order.
// The date codes are opaque sortable tokens, not calendar FEFO.
func New(partNumber string, requested int, snapshot inventory.Ledger, reserved Reserved) Plan {
	candidates := make([]Pick, 0)
	for _, b := range snapshot {
		if b.PartNumber != partNumber {
			continue
		}
		available := b.Quantity - reserved[b.ID]
		if available <= 0 {
			continue
		}
		candidates = append(candidates, Pick{Batch: b, Available: available})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].Batch, candidates[j].Batch
		if c := natsort.Compare(a.DateCode, b.DateCode); c != 0 {
			return c < 0
		}
		return natsort.Compare(a.Lot, b.Lot) < 0
	})

	plan := Plan{Picks: make([]Pick, 0, len(candidates))}
	remaining := requested
	for _, c := range candidates {
		if remaining == 0 {
			break
		}
		take := min(remaining, c.Available)
		c.Quantity = take
		plan.Picks = append(plan.Picks, c)
		remaining -= take
	}
	plan.Shortfall = remaining
	return plan
}
