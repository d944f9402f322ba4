package handler

import (
	"errors"

	"github.com/drapehq/drapehq/internal/catalog/pricing"
	"github.com/drapehq/drapehq/internal/catalog/repository"
	"github.com/drapehq/drapehq/internal/catalog/service"
	"github.com/gin-gonic/gin"
)

// GridHandler serves pricing grid endpoints.
type GridHandler struct {
	svc *service.GridService
}

func NewGridHandler(svc *service.GridService) *GridHandler {
	return &GridHandler{svc: svc}
}

// ListGrids GET /pricing-grids?search=&product_type=&price_group=&active=
func (h *GridHandler) ListGrids(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":       c.Query("search"),
		"product_type": c.Query("product_type"),
		"price_group":  c.Query("price_group"),
		"active":       c.Query("active"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list pricing grids: "+err.Error())
		return
	}

	Success(c, listResponse(items, page, pageSize, total))
}

// GetGrid GET /pricing-grids/:id
func (h *GridHandler) GetGrid(c *gin.Context) {
	grid, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "pricing grid not found")
			return
		}
		InternalError(c, "get pricing grid: "+err.Error())
		return
	}
	Success(c, grid)
}

// CreateGrid POST /pricing-grids
func (h *GridHandler) CreateGrid(c *gin.Context) {
	var req service.GridRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	grid, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		InternalError(c, "create pricing grid: "+err.Error())
		return
	}

	Created(c, grid)
}

// UpdateGrid PUT /pricing-grids/:id
func (h *GridHandler) UpdateGrid(c *gin.Context) {
	var req service.GridRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	grid, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "pricing grid not found")
			return
		}
		InternalError(c, "update pricing grid: "+err.Error())
		return
	}

	Success(c, grid)
}

// DeleteGrid DELETE /pricing-grids/:id
func (h *GridHandler) DeleteGrid(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		InternalError(c, "delete pricing grid: "+err.Error())
		return
	}
	Success(c, nil)
}

// ResolveGrid POST /pricing-grids/resolve
// A miss is a 200 with a nil grid; the caller inspects the resolution.
func (h *GridHandler) ResolveGrid(c *gin.Context) {
	var q pricing.GridQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if q.ProductType == "" || q.PriceGroup == "" {
		BadRequest(c, "product_type and price_group are required")
		return
	}

	res, err := h.svc.Resolve(c.Request.Context(), q)
	if err != nil {
		InternalError(c, "resolve pricing grid: "+err.Error())
		return
	}

	Success(c, res)
}

// DiagnoseGrid POST /pricing-grids/diagnose
func (h *GridHandler) DiagnoseGrid(c *gin.Context) {
	var q pricing.GridQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if q.ProductType == "" || q.PriceGroup == "" {
		BadRequest(c, "product_type and price_group are required")
		return
	}

	issues, err := h.svc.Diagnose(c.Request.Context(), q)
	if err != nil {
		InternalError(c, "diagnose pricing grid: "+err.Error())
		return
	}

	Success(c, gin.H{"issues": issues})
}
