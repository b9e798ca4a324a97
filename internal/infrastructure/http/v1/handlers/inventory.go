package handlers

import (
	"github.com/gin-gonic/gin"

	"pickstock/internal/core/apperror"
	"pickstock/internal/core/id"
	"pickstock/internal/domain/inventory"
	"pickstock/internal/infrastructure/http/v1/dto"
)

// InventoryHandler handles HTTP requests for the batch ledger.
type InventoryHandler struct {
	*BaseHandler
	service *inventory.Service
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(base *BaseHandler, service *inventory.Service) *InventoryHandler {
	return &InventoryHandler{BaseHandler: base, service: service}
}

// List returns all batches for the company.
func (h *InventoryHandler) List(c *gin.Context) {
	ledger, err := h.service.List(c.Request.Context(), h.CompanyID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, ledger)
}

// Get returns one batch.
func (h *InventoryHandler) Get(c *gin.Context) {
	batchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid batch id"))
		return
	}
	batch, err := h.service.Get(c.Request.Context(), h.CompanyID(c), batchID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, batch)
}

// Create adds a new batch.
func (h *InventoryHandler) Create(c *gin.Context) {
	var req dto.BatchRequest
	if !h.BindJSON(c, &req) {
		return
	}
	batch, err := h.service.Upsert(c.Request.Context(), h.CompanyID(c), req.ToBatch())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, batch)
}

// Update replaces an existing batch.
func (h *InventoryHandler) Update(c *gin.Context) {
	batchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid batch id"))
		return
	}
	var req dto.BatchRequest
	if !h.BindJSON(c, &req) {
		return
	}
	batch := req.ToBatch()
	batch.ID = batchID
	updated, err := h.service.Upsert(c.Request.Context(), h.CompanyID(c), batch)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Delete removes a batch.
func (h *InventoryHandler) Delete(c *gin.Context) {
	batchID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid batch id"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), h.CompanyID(c), batchID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// Import merges normalized rows into the ledger.
func (h *InventoryHandler) Import(c *gin.Context) {
	var req dto.ImportBatchesRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.service.Import(c.Request.Context(), h.CompanyID(c), req.ToBatches())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// Summaries returns per-part batch counts and totals.
func (h *InventoryHandler) Summaries(c *gin.Context) {
	summaries, err := h.service.Summaries(c.Request.Context(), h.CompanyID(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, summaries)
}
