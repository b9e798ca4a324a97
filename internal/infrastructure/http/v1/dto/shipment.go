package dto

import (
	"time"

	"pickstock/internal/domain/shipment"
)

// CreateShipmentRequest starts a new draft. When CustomerID is set the
// handler autofills the customer snapshot from the catalog; an inline
// CustomerInfo wins over the lookup.
type CreateShipmentRequest struct {
	CustomerID   string                 `json:"customerId"`
	CustomerInfo *shipment.CustomerInfo `json:"customerInfo"`
	DeliveryDate *time.Time             `json:"deliveryDate"`
}

// AddItemRequest allocates stock for one part into a draft.
type AddItemRequest struct {
	PartNumber string `json:"partNumber" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required"`

	// AllowPartial accepts a short plan instead of rejecting the add.
	// Defaults to true, matching the interactive flow.
	AllowPartial *bool `json:"allowPartial"`
}

// PlanQuery previews an allocation without applying it.
type PlanQuery struct {
	PartNumber string `form:"partNumber" binding:"required"`
	Quantity   int    `form:"quantity" binding:"required"`
}

// UpdateDraftRequest carries the editable fields of a draft.
type UpdateDraftRequest struct {
	CustomerInfo shipment.CustomerInfo  `json:"customerInfo"`
	Remarks      string                 `json:"remarks"`
	DeliveryDate *time.Time             `json:"deliveryDate"`
	Footer       shipment.Footer        `json:"footer"`
	Items        []shipment.LineItem    `json:"items"`
	PackingInfo  []shipment.PackingRow  `json:"packingInfo"`
}

// ApplyTo maps the request onto an order for SaveDraft.
func (r UpdateDraftRequest) ApplyTo(orderID string) shipment.Order {
	return shipment.Order{
		ID:           orderID,
		CustomerInfo: r.CustomerInfo,
		Remarks:      r.Remarks,
		DeliveryDate: r.DeliveryDate,
		Footer:       r.Footer,
		Items:        r.Items,
		PackingInfo:  r.PackingInfo,
	}
}

// EditLineRequest replaces one draft line.
type EditLineRequest struct {
	Line shipment.LineItem `json:"line" binding:"required"`
}

// ListShipmentsQuery filters the shipment list.
type ListShipmentsQuery struct {
	Status     string `form:"status"`
	CustomerID string `form:"customerId"`
	PreparedBy string `form:"preparedBy"`
	ApprovedBy string `form:"approvedBy"`
	From       string `form:"from" time_format:"2006-01-02"`
	To         string `form:"to" time_format:"2006-01-02"`
	Search     string `form:"search"`
}

// ToFilter converts the query into a domain filter.
func (q ListShipmentsQuery) ToFilter() (shipment.ListFilter, error) {
	filter := shipment.ListFilter{
		CustomerID: q.CustomerID,
		PreparedBy: q.PreparedBy,
		ApprovedBy: q.ApprovedBy,
		Search:     q.Search,
	}
	if q.Status != "" {
		status := shipment.Status(q.Status)
		filter.Status = &status
	}
	if q.From != "" {
		t, err := time.Parse("2006-01-02", q.From)
		if err != nil {
			return shipment.ListFilter{}, err
		}
		filter.From = &t
	}
	if q.To != "" {
		t, err := time.Parse("2006-01-02", q.To)
		if err != nil {
			return shipment.ListFilter{}, err
		}
		// Include the whole To day.
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.To = &end
	}
	return filter, nil
}
