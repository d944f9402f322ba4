package handler

import (
	"errors"

	"github.com/drapehq/drapehq/internal/crm/repository"
	"github.com/drapehq/drapehq/internal/crm/service"
	"github.com/gin-gonic/gin"
)

// ProjectHandler serves job endpoints.
type ProjectHandler struct {
	svc *service.ProjectService
}

func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// ListProjects GET /projects?search=&status=&client_id=&assigned_to=
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":      c.Query("search"),
		"status":      c.Query("status"),
		"client_id":   c.Query("client_id"),
		"assigned_to": c.Query("assigned_to"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list projects: "+err.Error())
		return
	}

	Success(c, listResponse(items, page, pageSize, total))
}

// GetProject GET /projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "project not found")
			return
		}
		InternalError(c, "get project: "+err.Error())
		return
	}
	Success(c, project)
}

// CreateProject POST /projects
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req service.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	project, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			BadRequest(c, "client not found")
			return
		}
		InternalError(c, "create project: "+err.Error())
		return
	}

	Created(c, project)
}

// UpdateProject PUT /projects/:id
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var req service.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	project, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "project not found")
			return
		}
		InternalError(c, "update project: "+err.Error())
		return
	}

	Success(c, project)
}

// StatusRequest carries a workflow target status.
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateProjectStatus PUT /projects/:id/status
func (h *ProjectHandler) UpdateProjectStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	project, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "project not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}

	Success(c, project)
}

// DeleteProject DELETE /projects/:id
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "project not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, nil)
}
