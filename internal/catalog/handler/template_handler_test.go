package handler

import (
	"net/http"
	"testing"

	"github.com/drapehq/drapehq/internal/catalog/repository"
	"github.com/drapehq/drapehq/internal/catalog/service"
	"github.com/drapehq/drapehq/internal/testutil"
	"github.com/gin-gonic/gin"
)

func setupTemplateTest(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	svcs := service.NewServices(repos, nil)
	h := NewTemplateHandler(svcs.Template)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/curtain-templates", h.ListTemplates)
	api.GET("/curtain-templates/:id", h.GetTemplate)
	api.POST("/curtain-templates", h.CreateTemplate)
	api.PUT("/curtain-templates/:id", h.UpdateTemplate)
	api.DELETE("/curtain-templates/:id", h.DeleteTemplate)

	return router
}

func pencilPleatPayload() map[string]interface{} {
	return map[string]interface{}{
		"name":            "Pencil Pleat Standard",
		"heading":         "pencil_pleat",
		"fullness_ratio":  2.2,
		"return_left":     7.5,
		"return_right":    7.5,
		"overlap":         10,
		"header_allowance": 20,
		"bottom_hem":      15,
		"seam_hem_cm":     1.5,
		"waste_percent":   5,
		"pricing_type":    "per_metre",
		"price_per_metre": 28.5,
		"lining_options": []map[string]interface{}{
			{"type": "unlined"},
			{"type": "standard", "price_per_metre": 6.5, "labour_per_curtain": 15},
		},
	}
}

func TestTemplateCreateAndGet(t *testing.T) {
	router := setupTemplateTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/curtain-templates", pencilPleatPayload(), token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["active"] != true {
		t.Fatalf("expected new template to be active, got %v", data["active"])
	}
	templateID := data["id"].(string)

	w2 := testutil.DoRequest(router, http.MethodGet, "/api/v1/curtain-templates/"+templateID, nil, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w2.Code, w2.Body.String())
	}

	resp2 := testutil.ParseResponse(w2)
	data2 := resp2["data"].(map[string]interface{})
	linings := data2["lining_options"].([]interface{})
	if len(linings) != 2 {
		t.Fatalf("expected 2 lining options, got %d", len(linings))
	}
}

func TestTemplateRejectsInvalidMaking(t *testing.T) {
	router := setupTemplateTest(t)
	token := testutil.DefaultTestToken()

	// Fullness below 1 cannot gather fabric
	bad := pencilPleatPayload()
	bad["fullness_ratio"] = 0.5
	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/curtain-templates", bad, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for fullness 0.5, got %d: %s", w.Code, w.Body.String())
	}

	// A non-railroadable template must say how seams are joined
	bad2 := pencilPleatPayload()
	delete(bad2, "seam_hem_cm")
	w2 := testutil.DoRequest(router, http.MethodPost, "/api/v1/curtain-templates", bad2, token)
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing seam hem, got %d: %s", w2.Code, w2.Body.String())
	}

	// Per-metre pricing with height bands must not overlap
	bad3 := pencilPleatPayload()
	bad3["use_height_bands"] = true
	bad3["price_bands"] = []map[string]interface{}{
		{"min_cm": 0, "max_cm": 200, "rate": 25},
		{"min_cm": 150, "max_cm": 300, "rate": 32},
	}
	w3 := testutil.DoRequest(router, http.MethodPost, "/api/v1/curtain-templates", bad3, token)
	if w3.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for overlapping bands, got %d: %s", w3.Code, w3.Body.String())
	}
}

func TestTemplateUpdateReplacesChildren(t *testing.T) {
	router := setupTemplateTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/curtain-templates", pencilPleatPayload(), token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	templateID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	updated := pencilPleatPayload()
	updated["name"] = "Pencil Pleat Deluxe"
	updated["lining_options"] = []map[string]interface{}{
		{"type": "blackout", "price_per_metre": 9.75, "labour_per_curtain": 20},
	}
	w2 := testutil.DoRequest(router, http.MethodPut, "/api/v1/curtain-templates/"+templateID, updated, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w2.Code, w2.Body.String())
	}

	w3 := testutil.DoRequest(router, http.MethodGet, "/api/v1/curtain-templates/"+templateID, nil, token)
	data := testutil.ParseResponse(w3)["data"].(map[string]interface{})
	if data["name"] != "Pencil Pleat Deluxe" {
		t.Fatalf("expected renamed template, got %v", data["name"])
	}
	linings := data["lining_options"].([]interface{})
	if len(linings) != 1 {
		t.Fatalf("expected lining options to be replaced, got %d", len(linings))
	}
}
