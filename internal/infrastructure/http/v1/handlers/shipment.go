package handlers

import (
	"github.com/gin-gonic/gin"

	"pickstock/internal/core/apperror"
	"pickstock/internal/domain/customer"
	"pickstock/internal/domain/shipment"
	"pickstock/internal/infrastructure/http/v1/dto"
)

// ShipmentHandler handles HTTP requests for pick orders.
type ShipmentHandler struct {
	*BaseHandler
	service   *shipment.Service
	customers *customer.Service
}

// NewShipmentHandler creates a new shipment handler.
func NewShipmentHandler(base *BaseHandler, service *shipment.Service, customers *customer.Service) *ShipmentHandler {
	return &ShipmentHandler{BaseHandler: base, service: service, customers: customers}
}

// List returns shipments passing the query filters, newest first.
func (h *ShipmentHandler) List(c *gin.Context) {
	var query dto.ListShipmentsQuery
	if !h.BindQuery(c, &query) {
		return
	}
	filter, err := query.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid date filter").WithDetail("error", err.Error()))
		return
	}
	result, err := h.service.List(c.Request.Context(), h.CompanyID(c), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Get returns one shipment.
func (h *ShipmentHandler) Get(c *gin.Context) {
	order, err := h.service.Get(c.Request.Context(), h.CompanyID(c), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, order)
}

// Create starts a new draft with the next pick-order number.
func (h *ShipmentHandler) Create(c *gin.Context) {
	var req dto.CreateShipmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	info, err := h.resolveCustomerInfo(c, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	order, err := h.service.Create(c.Request.Context(), h.CompanyID(c), info, req.DeliveryDate)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, order)
}

// resolveCustomerInfo builds the customer snapshot for a new draft.
// An inline snapshot wins; otherwise a customerId is looked up in the
// catalog and autofilled the way the picking UI does it.
func (h *ShipmentHandler) resolveCustomerInfo(c *gin.Context, req dto.CreateShipmentRequest) (shipment.CustomerInfo, error) {
	if req.CustomerInfo != nil {
		return *req.CustomerInfo, nil
	}
	if req.CustomerID == "" {
		return shipment.CustomerInfo{}, nil
	}
	cust, err := h.customers.Get(c.Request.Context(), h.CompanyID(c), req.CustomerID)
	if err != nil {
		return shipment.CustomerInfo{}, err
	}
	return shipment.CustomerInfo{
		ID:        cust.ID,
		Name:      cust.Name,
		ShortName: cust.ShortName,
		// Service defaults to the contact person for convenience.
		Service:      cust.Contact,
		ShipmentType: "Local",
	}, nil
}

// Plan previews an allocation for a draft.
func (h *ShipmentHandler) Plan(c *gin.Context) {
	var query dto.PlanQuery
	if !h.BindQuery(c, &query) {
		return
	}
	plan, err := h.service.Plan(c.Request.Context(), h.CompanyID(c), c.Param("id"), query.PartNumber, query.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, plan)
}

// AddItem allocates stock for one part into the draft.
func (h *ShipmentHandler) AddItem(c *gin.Context) {
	var req dto.AddItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	allowPartial := true
	if req.AllowPartial != nil {
		allowPartial = *req.AllowPartial
	}
	order, err := h.service.AddItem(c.Request.Context(), h.CompanyID(c), c.Param("id"), req.PartNumber, req.Quantity, allowPartial)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, order)
}

// UpdateDraft applies field edits to a draft.
func (h *ShipmentHandler) UpdateDraft(c *gin.Context) {
	var req dto.UpdateDraftRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.service.SaveDraft(c.Request.Context(), h.CompanyID(c), req.ApplyTo(c.Param("id")))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, order)
}

// EditLine replaces one draft line by index.
func (h *ShipmentHandler) EditLine(c *gin.Context) {
	index := h.ParseIntQuery(c, "index", -1)
	var req dto.EditLineRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.service.EditLine(c.Request.Context(), h.CompanyID(c), c.Param("id"), index, req.Line)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, order)
}

// RemoveLine removes one draft line by index.
func (h *ShipmentHandler) RemoveLine(c *gin.Context) {
	index := h.ParseIntQuery(c, "index", -1)
	order, err := h.service.RemoveLine(c.Request.Context(), h.CompanyID(c), c.Param("id"), index)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, order)
}

// Confirm completes a draft and deducts its stock.
func (h *ShipmentHandler) Confirm(c *gin.Context) {
	order, err := h.service.Confirm(c.Request.Context(), h.CompanyID(c), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, order)
}

// Cancel restocks a completed shipment and marks it cancelled.
func (h *ShipmentHandler) Cancel(c *gin.Context) {
	order, err := h.service.Cancel(c.Request.Context(), h.CompanyID(c), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, order)
}

// Delete removes a shipment, restocking first when it was completed.
func (h *ShipmentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), h.CompanyID(c), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Revise mints the next revision draft from a completed shipment.
func (h *ShipmentHandler) Revise(c *gin.Context) {
	order, err := h.service.Revise(c.Request.Context(), h.CompanyID(c), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, order)
}
