package dto

import (
	"pickstock/internal/domain/inventory"
)

// BatchRequest creates or updates a batch. ID is taken from the URL on
// update and left empty on create.
type BatchRequest struct {
	PartNumber      string `json:"partNumber" binding:"required"`
	Brand           string `json:"brand"`
	CountryOfOrigin string `json:"countryOfOrigin"`
	DateCode        string `json:"dateCode"`
	Lot             string `json:"lot"`
	Bin             string `json:"bin"`
	Quantity        int    `json:"quantity"`
}

// ToBatch maps the request to a domain batch.
func (r BatchRequest) ToBatch() inventory.Batch {
	return inventory.Batch{
		PartNumber:      r.PartNumber,
		Brand:           r.Brand,
		CountryOfOrigin: r.CountryOfOrigin,
		DateCode:        r.DateCode,
		Lot:             r.Lot,
		Bin:             r.Bin,
		Quantity:        r.Quantity,
	}
}

// ImportBatchesRequest carries normalized rows for a ledger import.
// Spreadsheet parsing happens client-side; the engine only merges.
type ImportBatchesRequest struct {
	Rows []BatchRequest `json:"rows" binding:"required"`
}

// ToBatches maps the rows to domain batches.
func (r ImportBatchesRequest) ToBatches() []inventory.Batch {
	batches := make([]inventory.Batch, 0, len(r.Rows))
	for _, row := range r.Rows {
		batches = append(batches, row.ToBatch())
	}
	return batches
}
