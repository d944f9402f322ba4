package handler

import (
	"github.com/drapehq/drapehq/internal/catalog/service"
	"github.com/gin-gonic/gin"
)

// SettingsHandler serves the cost settings endpoints.
type SettingsHandler struct {
	svc *service.SettingsService
}

func NewSettingsHandler(svc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// GetSettings GET /settings/costs
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.svc.Get(c.Request.Context())
	if err != nil {
		InternalError(c, "get cost settings: "+err.Error())
		return
	}
	Success(c, settings)
}

// UpdateSettings PUT /settings/costs
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req service.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	settings, err := h.svc.Update(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		InternalError(c, "update cost settings: "+err.Error())
		return
	}
	Success(c, settings)
}
