// Package shipment provides the pick-order lifecycle.
package shipment

import (
	"time"

	"pickstock/internal/core/apperror"
	"pickstock/internal/core/id"
	"pickstock/internal/domain/allocation"
	"pickstock/internal/domain/inventory"
)

// Status is the shipment lifecycle state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CustomerInfo is the customer snapshot embedded in an order. It is
// copied from the catalog at drafting time and stays as written even
// if the catalog record changes later.
type CustomerInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ShortName    string `json:"shortName"`
	Service      string `json:"service"`
	ShipmentType string `json:"shipmentType"`
}

// Footer holds the sign-off fields printed at the bottom of a pick order.
type Footer struct {
	PreparedBy string `json:"preparedBy"`
	ApprovedBy string `json:"approvedBy"`
	Picker     string `json:"picker"`
	Packer     string `json:"packer"`
	DCData     string `json:"dcData"`
	Label      string `json:"label"`
}

// LineItem is one allocated line. InventoryBatchID is a weak reference:
// the batch may be deleted later and the line stays valid; confirm and
// restock fall back to the descriptive triple then.
type LineItem struct {
	InventoryBatchID *id.ID `json:"inventoryBatchId,omitempty"`
	PartNumber       string `json:"partNumber"`
	Brand            string `json:"brand"`
	Bin              string `json:"bin"`
	CountryOfOrigin  string `json:"countryOfOrigin"`
	DateCode         string `json:"dateCode"`
	Lot              string `json:"lot"`
	SerialNumber     string `json:"serialNumber"`
	Quantity         int    `json:"quantity"`
	MaxQuantity      int    `json:"maxQuantity"`
	Remarks          string `json:"remarks"`
}

// RestockLine converts the line for return to the ledger.
func (li LineItem) RestockLine() inventory.RestockLine {
	return inventory.RestockLine{
		BatchID:         li.InventoryBatchID,
		PartNumber:      li.PartNumber,
		Brand:           li.Brand,
		CountryOfOrigin: li.CountryOfOrigin,
		DateCode:        li.DateCode,
		Lot:             li.Lot,
		Bin:             li.Bin,
		Quantity:        li.Quantity,
	}
}

// PackingRow is a free-form packing list row. Only the row count is
// governed by a rule; contents are filled in by hand.
type PackingRow struct {
	CartonNo    string `json:"cartonNo"`
	Qty         string `json:"qty"`
	Dimensions  string `json:"dimensions"`
	NetWeight   string `json:"netWeight"`
	GrossWeight string `json:"grossWeight"`
}

// Order is one pick order. ID equals PickOrderNo: the bare base number
// for an original order, "<base>-<n>" for its n-th revision.
type Order struct {
	ID           string       `db:"id" json:"id"`
	PickOrderNo  string       `db:"pick_order_no" json:"pickOrderNo"`
	Status       Status       `db:"status" json:"status"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
	LastModified time.Time    `db:"last_modified" json:"lastModified"`
	CompletedAt  *time.Time   `db:"completed_at" json:"completedAt,omitempty"`
	DeliveryDate *time.Time   `db:"delivery_date" json:"deliveryDate,omitempty"`
	CustomerInfo CustomerInfo `db:"customer_info" json:"customerInfo"`
	Remarks      string       `db:"remarks" json:"remarks"`
	Items        []LineItem   `db:"items" json:"items"`
	PackingInfo  []PackingRow `db:"packing_info" json:"packingInfo"`
	Footer       Footer       `db:"footer" json:"footer"`
}

// NewOrder creates a draft with a freshly issued base number.
func NewOrder(number int64, info CustomerInfo, preparedBy string, now time.Time) Order {
	no := formatBase(number)
	if info.ShipmentType == "" {
		info.ShipmentType = "Local"
	}
	return Order{
		ID:           no,
		PickOrderNo:  no,
		Status:       StatusDraft,
		CreatedAt:    now,
		LastModified: now,
		CustomerInfo: info,
		Items:        make([]LineItem, 0),
		PackingInfo:  make([]PackingRow, 0),
		Footer:       Footer{PreparedBy: preparedBy},
	}
}

// Clone returns a deep copy of the order.
func (o Order) Clone() Order {
	out := o
	out.Items = make([]LineItem, len(o.Items))
	copy(out.Items, o.Items)
	out.PackingInfo = make([]PackingRow, len(o.PackingInfo))
	copy(out.PackingInfo, o.PackingInfo)
	if o.CompletedAt != nil {
		t := *o.CompletedAt
		out.CompletedAt = &t
	}
	if o.DeliveryDate != nil {
		t := *o.DeliveryDate
		out.DeliveryDate = &t
	}
	return out
}

// Reserved sums this draft's planned quantities per source batch, so a
// new plan does not allocate stock already claimed by existing lines.
func (o Order) Reserved() allocation.Reserved {
	reserved := make(allocation.Reserved)
	for _, li := range o.Items {
		if li.InventoryBatchID != nil {
			reserved[*li.InventoryBatchID] += li.Quantity
		}
	}
	return reserved
}

// AppendItems adds one line per pick plus packing rows. The first line
// added to an empty order brings 5 rows, every further line 3.
func (o *Order) AppendItems(picks []allocation.Pick) {
	firstItem := len(o.Items) == 0
	rows := 0
	for i, p := range picks {
		batchID := p.Batch.ID
		o.Items = append(o.Items, LineItem{
			InventoryBatchID: &batchID,
			PartNumber:       p.Batch.PartNumber,
			Brand:            p.Batch.Brand,
			Bin:              p.Batch.Bin,
			CountryOfOrigin:  p.Batch.CountryOfOrigin,
			DateCode:         p.Batch.DateCode,
			Lot:              p.Batch.Lot,
			Quantity:         p.Quantity,
			MaxQuantity:      p.Batch.Quantity,
		})
		if firstItem && i == 0 {
			rows += 5
		} else {
			rows += 3
		}
	}
	for i := 0; i < rows; i++ {
		o.PackingInfo = append(o.PackingInfo, PackingRow{})
	}
}

// ValidateLines checks the confirm-time line invariant.
func (o Order) ValidateLines() error {
	for i, li := range o.Items {
		if li.Quantity <= 0 {
			return apperror.NewValidation("line quantity must be a positive integer").
				WithDetail("line", i+1).
				WithDetail("part_number", li.PartNumber)
		}
	}
	return nil
}

// cancelledMarker is the audit text appended to remarks on cancellation.
const cancelledMarker = "[Cancelled]"

// MarkCancelled flips the order to cancelled and appends the audit marker.
func (o *Order) MarkCancelled(now time.Time) {
	o.Status = StatusCancelled
	if o.Remarks != "" {
		o.Remarks += " " + cancelledMarker
	} else {
		o.Remarks = cancelledMarker
	}
	o.LastModified = now
}
