package handler

import (
	"errors"

	"github.com/drapehq/drapehq/internal/catalog/repository"
	"github.com/drapehq/drapehq/internal/catalog/service"
	"github.com/gin-gonic/gin"
)

// TemplateHandler serves curtain template endpoints.
type TemplateHandler struct {
	svc *service.TemplateService
}

func NewTemplateHandler(svc *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

// templateError maps calculator validation failures to 400s.
func templateError(c *gin.Context, action string, err error) {
	var ve *service.ValidationError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, "template not found")
	case errors.As(err, &ve):
		BadRequest(c, ve.Error())
	default:
		InternalError(c, action+": "+err.Error())
	}
}

// ListTemplates GET /templates?search=&pricing_type=&active=
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":       c.Query("search"),
		"pricing_type": c.Query("pricing_type"),
		"active":       c.Query("active"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list templates: "+err.Error())
		return
	}

	Success(c, listResponse(items, page, pageSize, total))
}

// GetTemplate GET /templates/:id
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	template, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "template not found")
			return
		}
		InternalError(c, "get template: "+err.Error())
		return
	}
	Success(c, template)
}

// CreateTemplate POST /templates
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req service.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	template, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		templateError(c, "create template", err)
		return
	}

	Created(c, template)
}

// UpdateTemplate PUT /templates/:id
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	var req service.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	template, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		templateError(c, "update template", err)
		return
	}

	Success(c, template)
}

// DeleteTemplate DELETE /templates/:id
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		InternalError(c, "delete template: "+err.Error())
		return
	}
	Success(c, nil)
}
