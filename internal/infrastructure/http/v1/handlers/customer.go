package handlers

import (
	"github.com/gin-gonic/gin"

	"pickstock/internal/domain/customer"
	"pickstock/internal/infrastructure/http/v1/dto"
)

// CustomerHandler handles HTTP requests for the customer catalog.
type CustomerHandler struct {
	*BaseHandler
	service *customer.Service
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(base *BaseHandler, service *customer.Service) *CustomerHandler {
	return &CustomerHandler{BaseHandler: base, service: service}
}

// List returns all customers for the company.
func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.service.List(c.Request.Context(), h.CompanyID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, customers)
}

// Get returns one customer.
func (h *CustomerHandler) Get(c *gin.Context) {
	cust, err := h.service.Get(c.Request.Context(), h.CompanyID(c), c.Param("id"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cust)
}

// Create adds a new customer.
func (h *CustomerHandler) Create(c *gin.Context) {
	var req dto.CustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}
	created, err := h.service.Create(c.Request.Context(), h.CompanyID(c), req.ToCustomer())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, created)
}

// Update replaces an existing customer.
func (h *CustomerHandler) Update(c *gin.Context) {
	var req dto.CustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}
	cust := req.ToCustomer()
	cust.ID = c.Param("id")
	updated, err := h.service.Update(c.Request.Context(), h.CompanyID(c), cust)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Delete removes a customer.
func (h *CustomerHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), h.CompanyID(c), c.Param("id")); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Import merges normalized rows into the catalog, skipping taken ids.
func (h *CustomerHandler) Import(c *gin.Context) {
	var req dto.ImportCustomersRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.service.Import(c.Request.Context(), h.CompanyID(c), req.ToCustomers())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}
