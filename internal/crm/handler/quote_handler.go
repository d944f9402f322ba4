package handler

import (
	"errors"

	"github.com/drapehq/drapehq/internal/crm/repository"
	"github.com/drapehq/drapehq/internal/crm/service"
	"github.com/gin-gonic/gin"
)

// QuoteHandler serves quote and line item endpoints.
type QuoteHandler struct {
	svc *service.QuoteService
}

func NewQuoteHandler(svc *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{svc: svc}
}

// ListQuotes GET /quotes?search=&status=&client_id=&project_id=
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":     c.Query("search"),
		"status":     c.Query("status"),
		"client_id":  c.Query("client_id"),
		"project_id": c.Query("project_id"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list quotes: "+err.Error())
		return
	}

	Success(c, listResponse(items, page, pageSize, total))
}

// GetQuote GET /quotes/:id
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	quote, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "quote not found")
			return
		}
		InternalError(c, "get quote: "+err.Error())
		return
	}
	Success(c, quote)
}

// CreateQuote POST /quotes
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var req service.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	quote, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			BadRequest(c, err.Error())
			return
		}
		InternalError(c, "create quote: "+err.Error())
		return
	}

	Created(c, quote)
}

// UpdateQuote PUT /quotes/:id
func (h *QuoteHandler) UpdateQuote(c *gin.Context) {
	var req service.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	quote, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "quote not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}

	Success(c, quote)
}

// DeleteQuote DELETE /quotes/:id
func (h *QuoteHandler) DeleteQuote(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "quote not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, nil)
}

// AddLineItem POST /quotes/:id/items
// prices the window treatment through the curtain calculator and
// snapshots the breakdown on the line.
func (h *QuoteHandler) AddLineItem(c *gin.Context) {
	var req service.LineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	quote, err := h.svc.AddLineItem(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "quote not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}

	Success(c, quote)
}

// RemoveLineItem DELETE /quotes/:id/items/:itemId
func (h *QuoteHandler) RemoveLineItem(c *gin.Context) {
	quote, err := h.svc.RemoveLineItem(c.Request.Context(), c.Param("id"), c.Param("itemId"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "line item not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, quote)
}

// UpdateQuoteStatus PUT /quotes/:id/status
func (h *QuoteHandler) UpdateQuoteStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	quote, err := h.svc.UpdateStatus(c.Request.Context(), GetUserID(c), c.Param("id"), req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "quote not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}

	Success(c, quote)
}

// ExportQuote GET /quotes/:id/export
func (h *QuoteHandler) ExportQuote(c *gin.Context) {
	f, filename, err := h.svc.Export(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "quote not found")
			return
		}
		InternalError(c, "export quote: "+err.Error())
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
