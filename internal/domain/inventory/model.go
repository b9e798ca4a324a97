// Package inventory provides the batch ledger and its mutation primitives.
package inventory

import (
	"pickstock/internal/core/apperror"
	"pickstock/internal/core/id"
)

// Batch is one stock entry. Several batches may share the same
// (partNumber, dateCode, lot) triple after imports; they stay separate
// rows and are only summarized for display.
type Batch struct {
	ID              id.ID  `db:"id" json:"id"`
	PartNumber      string `db:"part_number" json:"partNumber"`
	Brand           string `db:"brand" json:"brand"`
	CountryOfOrigin string `db:"country_of_origin" json:"countryOfOrigin"`
	DateCode        string `db:"date_code" json:"dateCode"`
	Lot             string `db:"lot" json:"lot"`
	Bin             string `db:"bin" json:"bin"`
	Quantity        int    `db:"quantity" json:"quantity"`
}

// Key returns the descriptive triple used by the fallback matching rule.
func (b Batch) Key() BatchKey {
	return BatchKey{PartNumber: b.PartNumber, DateCode: b.DateCode, Lot: b.Lot}
}

// BatchKey identifies a batch by its descriptive triple. Distinct
// batches can share a key; id match always takes precedence.
type BatchKey struct {
	PartNumber string
	DateCode   string
	Lot        string
}

// Ledger is one company's batch collection. Mutating operations work on
// a Clone and persist the whole collection on success, so a failed
// operation never leaves a half-applied ledger behind.
type Ledger []Batch

// Clone returns a deep copy of the ledger.
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	copy(out, l)
	return out
}

// FindByID returns a pointer to the batch with the given id, or nil.
func (l Ledger) FindByID(batchID id.ID) *Batch {
	for i := range l {
		if l[i].ID == batchID {
			return &l[i]
		}
	}
	return nil
}

// FindByKey returns the first batch matching the descriptive triple, or nil.
func (l Ledger) FindByKey(key BatchKey) *Batch {
	for i := range l {
		if l[i].Key() == key {
			return &l[i]
		}
	}
	return nil
}

// Resolve locates a line's source batch: exact id match when batchID is
// set and still present, otherwise the first (partNumber, dateCode, lot)
// match. Returns nil when neither resolves.
func (l Ledger) Resolve(batchID *id.ID, key BatchKey) *Batch {
	if batchID != nil && !id.IsNil(*batchID) {
		if b := l.FindByID(*batchID); b != nil {
			return b
		}
	}
	return l.FindByKey(key)
}

// Deduct removes qty units from the batch. Quantity never goes
// negative; a short batch fails the whole operation.
func (l Ledger) Deduct(b *Batch, qty int) error {
	if b.Quantity < qty {
		return apperror.NewInsufficientStock(b.PartNumber, b.DateCode, b.Lot, qty, b.Quantity)
	}
	b.Quantity -= qty
	return nil
}

// RestockLine carries one line's worth of stock back to the ledger.
type RestockLine struct {
	BatchID         *id.ID
	PartNumber      string
	Brand           string
	CountryOfOrigin string
	DateCode        string
	Lot             string
	Bin             string
	Quantity        int
}

// Restock returns line.Quantity units to the resolved batch. When no
// batch resolves, a new one is synthesized from the line's descriptive
// data; a restock is never silently dropped.
func (l *Ledger) Restock(line RestockLine) {
	key := BatchKey{PartNumber: line.PartNumber, DateCode: line.DateCode, Lot: line.Lot}
	if b := l.Resolve(line.BatchID, key); b != nil {
		b.Quantity += line.Quantity
		return
	}
	*l = append(*l, Batch{
		ID:              id.New(),
		PartNumber:      line.PartNumber,
		Brand:           line.Brand,
		CountryOfOrigin: line.CountryOfOrigin,
		DateCode:        line.DateCode,
		Lot:             line.Lot,
		Bin:             line.Bin,
		Quantity:        line.Quantity,
	})
}
