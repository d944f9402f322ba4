package handler

import (
	"errors"

	"github.com/drapehq/drapehq/internal/catalog/repository"
	"github.com/drapehq/drapehq/internal/catalog/service"
	"github.com/gin-gonic/gin"
)

// SupplierHandler serves supplier endpoints.
type SupplierHandler struct {
	svc *service.SupplierService
}

func NewSupplierHandler(svc *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{svc: svc}
}

// ListSuppliers GET /suppliers?search=&category=&status=&page=&page_size=
func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":   c.Query("search"),
		"category": c.Query("category"),
		"status":   c.Query("status"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list suppliers: "+err.Error())
		return
	}

	Success(c, listResponse(items, page, pageSize, total))
}

// GetSupplier GET /suppliers/:id
func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	supplier, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "supplier not found")
			return
		}
		InternalError(c, "get supplier: "+err.Error())
		return
	}
	Success(c, supplier)
}

// CreateSupplier POST /suppliers
func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	var req service.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	supplier, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		InternalError(c, "create supplier: "+err.Error())
		return
	}

	Created(c, supplier)
}

// UpdateSupplier PUT /suppliers/:id
func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	var req service.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	supplier, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "supplier not found")
			return
		}
		InternalError(c, "update supplier: "+err.Error())
		return
	}

	Success(c, supplier)
}

// DeleteSupplier DELETE /suppliers/:id
func (h *SupplierHandler) DeleteSupplier(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		InternalError(c, "delete supplier: "+err.Error())
		return
	}
	Success(c, nil)
}

// ListContacts GET /suppliers/:id/contacts
func (h *SupplierHandler) ListContacts(c *gin.Context) {
	contacts, err := h.svc.ListContacts(c.Request.Context(), c.Param("id"))
	if err != nil {
		InternalError(c, "list contacts: "+err.Error())
		return
	}
	Success(c, gin.H{"items": contacts})
}

// CreateContact POST /suppliers/:id/contacts
func (h *SupplierHandler) CreateContact(c *gin.Context) {
	var req service.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	contact, err := h.svc.CreateContact(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		InternalError(c, "create contact: "+err.Error())
		return
	}

	Created(c, contact)
}

// DeleteContact DELETE /suppliers/:id/contacts/:contactId
func (h *SupplierHandler) DeleteContact(c *gin.Context) {
	if err := h.svc.DeleteContact(c.Request.Context(), c.Param("contactId")); err != nil {
		InternalError(c, "delete contact: "+err.Error())
		return
	}
	Success(c, nil)
}
