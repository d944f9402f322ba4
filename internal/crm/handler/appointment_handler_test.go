package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/drapehq/drapehq/internal/crm/repository"
	"github.com/drapehq/drapehq/internal/crm/service"
	"github.com/drapehq/drapehq/internal/testutil"
	"github.com/gin-gonic/gin"
)

func setupAppointmentTest(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	svc := service.NewAppointmentService(repos.Appointment, nil, nil)
	h := NewAppointmentHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/appointments", h.ListAppointments)
	api.POST("/appointments", h.CreateAppointment)
	api.PUT("/appointments/:id", h.UpdateAppointment)
	api.PUT("/appointments/:id/status", h.UpdateAppointmentStatus)

	return router
}

func measurementVisit(start, end time.Time, fitter string) map[string]interface{} {
	return map[string]interface{}{
		"title":       "Measure front windows",
		"type":        "measurement",
		"starts_at":   start.Format(time.RFC3339),
		"ends_at":     end.Format(time.RFC3339),
		"assigned_to": fitter,
	}
}

func TestAppointmentConflictDetection(t *testing.T) {
	router := setupAppointmentTest(t)
	token := testutil.DefaultTestToken()

	base := time.Now().Add(48 * time.Hour).Truncate(time.Hour)

	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/appointments",
		measurementVisit(base, base.Add(2*time.Hour), "fitter-1"), token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// Overlapping booking for the same fitter is refused with the clash attached
	w2 := testutil.DoRequest(router, http.MethodPost, "/api/v1/appointments",
		measurementVisit(base.Add(time.Hour), base.Add(3*time.Hour), "fitter-1"), token)
	if w2.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w2.Code, w2.Body.String())
	}
	resp := testutil.ParseResponse(w2)
	conflicts := resp["data"].(map[string]interface{})["conflicts"].([]interface{})
	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict in response, got %d", len(conflicts))
	}

	// A different fitter is free
	w3 := testutil.DoRequest(router, http.MethodPost, "/api/v1/appointments",
		measurementVisit(base.Add(time.Hour), base.Add(3*time.Hour), "fitter-2"), token)
	if w3.Code != http.StatusCreated {
		t.Fatalf("expected 201 for other fitter, got %d: %s", w3.Code, w3.Body.String())
	}

	// Back-to-back slots do not clash
	w4 := testutil.DoRequest(router, http.MethodPost, "/api/v1/appointments",
		measurementVisit(base.Add(2*time.Hour), base.Add(3*time.Hour), "fitter-1"), token)
	if w4.Code != http.StatusCreated {
		t.Fatalf("expected 201 for adjacent slot, got %d: %s", w4.Code, w4.Body.String())
	}

	// Force books over the clash anyway
	forced := measurementVisit(base.Add(time.Hour), base.Add(3*time.Hour), "fitter-1")
	forced["force"] = true
	w5 := testutil.DoRequest(router, http.MethodPost, "/api/v1/appointments", forced, token)
	if w5.Code != http.StatusCreated {
		t.Fatalf("expected 201 for forced booking, got %d: %s", w5.Code, w5.Body.String())
	}
}

func TestAppointmentRejectsInvertedRange(t *testing.T) {
	router := setupAppointmentTest(t)
	token := testutil.DefaultTestToken()

	base := time.Now().Add(48 * time.Hour)
	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/appointments",
		measurementVisit(base.Add(time.Hour), base, "fitter-1"), token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for end before start, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAppointmentStatusUpdate(t *testing.T) {
	router := setupAppointmentTest(t)
	token := testutil.DefaultTestToken()

	base := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/appointments",
		measurementVisit(base, base.Add(time.Hour), "fitter-1"), token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	id := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w2 := testutil.DoRequest(router, http.MethodPut, "/api/v1/appointments/"+id+"/status",
		map[string]interface{}{"status": "completed"}, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w2.Code, w2.Body.String())
	}

	w3 := testutil.DoRequest(router, http.MethodPut, "/api/v1/appointments/"+id+"/status",
		map[string]interface{}{"status": "rescheduled"}, token)
	if w3.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d: %s", w3.Code, w3.Body.String())
	}
}
