package handler

import (
	"errors"

	"github.com/drapehq/drapehq/internal/crm/repository"
	"github.com/drapehq/drapehq/internal/crm/service"
	"github.com/gin-gonic/gin"
)

// ClientHandler serves customer endpoints.
type ClientHandler struct {
	svc *service.ClientService
}

func NewClientHandler(svc *service.ClientService) *ClientHandler {
	return &ClientHandler{svc: svc}
}

// ListClients GET /clients?search=&stage=&client_type=&assigned_to=
func (h *ClientHandler) ListClients(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":      c.Query("search"),
		"stage":       c.Query("stage"),
		"client_type": c.Query("client_type"),
		"assigned_to": c.Query("assigned_to"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list clients: "+err.Error())
		return
	}

	Success(c, listResponse(items, page, pageSize, total))
}

// GetClient GET /clients/:id
func (h *ClientHandler) GetClient(c *gin.Context) {
	client, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "client not found")
			return
		}
		InternalError(c, "get client: "+err.Error())
		return
	}
	Success(c, client)
}

// CreateClient POST /clients
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req service.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	client, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		InternalError(c, "create client: "+err.Error())
		return
	}

	Created(c, client)
}

// UpdateClient PUT /clients/:id
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	var req service.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	client, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "client not found")
			return
		}
		InternalError(c, "update client: "+err.Error())
		return
	}

	Success(c, client)
}

// DeleteClient DELETE /clients/:id
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		InternalError(c, "delete client: "+err.Error())
		return
	}
	Success(c, nil)
}

// Funnel GET /clients/funnel
func (h *ClientHandler) Funnel(c *gin.Context) {
	counts, err := h.svc.FunnelCounts(c.Request.Context())
	if err != nil {
		InternalError(c, "funnel counts: "+err.Error())
		return
	}
	Success(c, counts)
}
