package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/drapehq/drapehq/internal/crm/repository"
	"github.com/drapehq/drapehq/internal/crm/service"
	"github.com/gin-gonic/gin"
)

// AppointmentHandler serves the visit diary endpoints.
type AppointmentHandler struct {
	svc *service.AppointmentService
}

func NewAppointmentHandler(svc *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

// ListAppointments GET /appointments?type=&status=&client_id=&assigned_to=&from=&to=
func (h *AppointmentHandler) ListAppointments(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"type":        c.Query("type"),
		"status":      c.Query("status"),
		"client_id":   c.Query("client_id"),
		"assigned_to": c.Query("assigned_to"),
		"from":        c.Query("from"),
		"to":          c.Query("to"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "list appointments: "+err.Error())
		return
	}

	Success(c, listResponse(items, page, pageSize, total))
}

// GetAppointment GET /appointments/:id
func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	appt, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "appointment not found")
			return
		}
		InternalError(c, "get appointment: "+err.Error())
		return
	}
	Success(c, appt)
}

// CreateAppointment POST /appointments
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req service.AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	appt, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	Created(c, appt)
}

// UpdateAppointment PUT /appointments/:id
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	var req service.AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	appt, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	Success(c, appt)
}

// UpdateAppointmentStatus PUT /appointments/:id/status
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	appt, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "appointment not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}

	Success(c, appt)
}

// DeleteAppointment DELETE /appointments/:id
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "appointment not found")
			return
		}
		InternalError(c, "delete appointment: "+err.Error())
		return
	}
	Success(c, nil)
}

// Schedule GET /appointments/schedule?assigned_to=&days=
// returns the upcoming diary for a fitter, defaulting to 7 days.
func (h *AppointmentHandler) Schedule(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	if days < 1 || days > 31 {
		days = 7
	}

	now := time.Now()
	filters := map[string]string{
		"assigned_to": c.Query("assigned_to"),
		"status":      "scheduled",
		"from":        now.Format(time.RFC3339),
		"to":          now.AddDate(0, 0, days).Format(time.RFC3339),
	}

	items, total, err := h.svc.List(c.Request.Context(), 1, 100, filters)
	if err != nil {
		InternalError(c, "load schedule: "+err.Error())
		return
	}

	Success(c, listResponse(items, 1, 100, total))
}

// writeError maps booking failures to responses. Schedule clashes carry
// the conflicting appointments so the client can offer a force override.
func (h *AppointmentHandler) writeError(c *gin.Context, err error) {
	var conflict *service.ErrScheduleConflict
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, Response{
			Code:    40900,
			Message: conflict.Error(),
			Data:    gin.H{"conflicts": conflict.Conflicts},
		})
		return
	}
	if errors.Is(err, repository.ErrNotFound) {
		NotFound(c, "appointment not found")
		return
	}
	BadRequest(c, err.Error())
}
