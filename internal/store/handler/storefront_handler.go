package handler

import (
	"errors"

	"github.com/drapehq/drapehq/internal/store/repository"
	"github.com/drapehq/drapehq/internal/store/service"
	"github.com/gin-gonic/gin"
)

// StorefrontHandler serves the store builder endpoints.
type StorefrontHandler struct {
	svc *service.StorefrontService
}

func NewStorefrontHandler(svc *service.StorefrontService) *StorefrontHandler {
	return &StorefrontHandler{svc: svc}
}

// ListStores GET /stores?search=&published=
func (h *StorefrontHandler) ListStores(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":    c.Query("search"),
		"published": c.Query("published"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list stores: "+err.Error())
		return
	}

	Success(c, listResponse(items, page, pageSize, total))
}

// GetStore GET /stores/:id
func (h *StorefrontHandler) GetStore(c *gin.Context) {
	store, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "store not found")
			return
		}
		InternalError(c, "get store: "+err.Error())
		return
	}
	Success(c, store)
}

// GetPublicStore GET /store/:slug (no auth)
func (h *StorefrontHandler) GetPublicStore(c *gin.Context) {
	store, err := h.svc.GetPublic(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "store not found")
			return
		}
		InternalError(c, "load store: "+err.Error())
		return
	}
	Success(c, store)
}

// CreateStore POST /stores
func (h *StorefrontHandler) CreateStore(c *gin.Context) {
	var req service.StorefrontRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	store, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	Created(c, store)
}

// UpdateStore PUT /stores/:id
func (h *StorefrontHandler) UpdateStore(c *gin.Context) {
	var req service.StorefrontRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	store, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "store not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}

	Success(c, store)
}

// DeleteStore DELETE /stores/:id
func (h *StorefrontHandler) DeleteStore(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "store not found")
			return
		}
		InternalError(c, "delete store: "+err.Error())
		return
	}
	Success(c, nil)
}

// PublishRequest toggles public visibility.
type PublishRequest struct {
	Published *bool `json:"published" binding:"required"`
}

// PublishStore PUT /stores/:id/publish
func (h *StorefrontHandler) PublishStore(c *gin.Context) {
	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	store, err := h.svc.SetPublished(c.Request.Context(), c.Param("id"), *req.Published)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "store not found")
			return
		}
		InternalError(c, "publish store: "+err.Error())
		return
	}

	Success(c, store)
}

// AddProduct POST /stores/:id/products
func (h *StorefrontHandler) AddProduct(c *gin.Context) {
	var req service.StoreProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	product, err := h.svc.AddProduct(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "store not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}

	Created(c, product)
}

// UpdateProduct PUT /stores/:id/products/:productId
func (h *StorefrontHandler) UpdateProduct(c *gin.Context) {
	var req service.StoreProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	product, err := h.svc.UpdateProduct(c.Request.Context(), c.Param("id"), c.Param("productId"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "store product not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}

	Success(c, product)
}

// RemoveProduct DELETE /stores/:id/products/:productId
func (h *StorefrontHandler) RemoveProduct(c *gin.Context) {
	if err := h.svc.RemoveProduct(c.Request.Context(), c.Param("id"), c.Param("productId")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "store product not found")
			return
		}
		InternalError(c, "remove product: "+err.Error())
		return
	}
	Success(c, nil)
}

// UploadProductImage POST /stores/:id/products/:productId/image
func (h *StorefrontHandler) UploadProductImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "file is required")
		return
	}

	product, err := h.svc.UploadProductImage(c.Request.Context(), c.Param("id"), c.Param("productId"), file)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "store product not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}

	Success(c, product)
}
