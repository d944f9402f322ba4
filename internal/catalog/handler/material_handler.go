package handler

import (
	"errors"
	"strconv"

	"github.com/drapehq/drapehq/internal/catalog/repository"
	"github.com/drapehq/drapehq/internal/catalog/service"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// MaterialHandler serves inventory endpoints.
type MaterialHandler struct {
	svc *service.MaterialService
}

func NewMaterialHandler(svc *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{svc: svc}
}

// ListMaterials GET /materials?search=&category=&status=&supplier_id=&price_group=&low_stock=
func (h *MaterialHandler) ListMaterials(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":      c.Query("search"),
		"category":    c.Query("category"),
		"status":      c.Query("status"),
		"supplier_id": c.Query("supplier_id"),
		"price_group": c.Query("price_group"),
		"low_stock":   c.Query("low_stock"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list materials: "+err.Error())
		return
	}

	Success(c, listResponse(items, page, pageSize, total))
}

// GetMaterial GET /materials/:id
func (h *MaterialHandler) GetMaterial(c *gin.Context) {
	material, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "material not found")
			return
		}
		InternalError(c, "get material: "+err.Error())
		return
	}
	Success(c, material)
}

// CreateMaterial POST /materials
func (h *MaterialHandler) CreateMaterial(c *gin.Context) {
	var req service.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	material, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		InternalError(c, "create material: "+err.Error())
		return
	}

	Created(c, material)
}

// UpdateMaterial PUT /materials/:id
func (h *MaterialHandler) UpdateMaterial(c *gin.Context) {
	var req service.UpdateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	material, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "material not found")
			return
		}
		InternalError(c, "update material: "+err.Error())
		return
	}

	Success(c, material)
}

// DeleteMaterial DELETE /materials/:id
func (h *MaterialHandler) DeleteMaterial(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		InternalError(c, "delete material: "+err.Error())
		return
	}
	Success(c, nil)
}

// AdjustStock POST /materials/:id/stock
func (h *MaterialHandler) AdjustStock(c *gin.Context) {
	var req service.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	movement, err := h.svc.AdjustStock(c.Request.Context(), GetUserID(c), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "material not found")
			return
		}
		InternalError(c, "adjust stock: "+err.Error())
		return
	}

	Created(c, movement)
}

// ListMovements GET /materials/:id/movements?limit=50
func (h *MaterialHandler) ListMovements(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	movements, err := h.svc.ListMovements(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		InternalError(c, "list movements: "+err.Error())
		return
	}
	Success(c, gin.H{"items": movements})
}

// ExportMaterials GET /materials/export
func (h *MaterialHandler) ExportMaterials(c *gin.Context) {
	f, filename, err := h.svc.Export(c.Request.Context())
	if err != nil {
		InternalError(c, "export materials: "+err.Error())
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}

// ImportMaterials POST /materials/import
func (h *MaterialHandler) ImportMaterials(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "excel file required")
		return
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		BadRequest(c, "invalid excel file: "+err.Error())
		return
	}
	defer f.Close()

	result, err := h.svc.Import(c.Request.Context(), GetUserID(c), f)
	if err != nil {
		InternalError(c, "import materials: "+err.Error())
		return
	}

	Success(c, result)
}
