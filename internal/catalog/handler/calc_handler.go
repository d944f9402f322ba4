package handler

import (
	"errors"

	"github.com/drapehq/drapehq/internal/catalog/pricing"
	"github.com/drapehq/drapehq/internal/catalog/repository"
	"github.com/drapehq/drapehq/internal/catalog/service"
	"github.com/gin-gonic/gin"
)

// CalcHandler serves curtain calculation endpoints.
type CalcHandler struct {
	svc *service.CalcService
}

func NewCalcHandler(svc *service.CalcService) *CalcHandler {
	return &CalcHandler{svc: svc}
}

// Calculate POST /calculations/curtain
func (h *CalcHandler) Calculate(c *gin.Context) {
	var req service.CalcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	resp, err := h.svc.Calculate(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			NotFound(c, "template not found")
		case errors.Is(err, pricing.ErrMissingMeasurements),
			errors.Is(err, pricing.ErrSeamHemRequired):
			BadRequest(c, err.Error())
		default:
			InternalError(c, "calculate: "+err.Error())
		}
		return
	}

	Success(c, resp)
}
