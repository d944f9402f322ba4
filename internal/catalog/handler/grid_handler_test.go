package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/drapehq/drapehq/internal/catalog/entity"
	"github.com/drapehq/drapehq/internal/catalog/repository"
	"github.com/drapehq/drapehq/internal/catalog/service"
	"github.com/drapehq/drapehq/internal/testutil"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func setupGridTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	svcs := service.NewServices(repos, nil)
	h := NewGridHandler(svcs.Grid)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/pricing-grids", h.ListGrids)
	api.POST("/pricing-grids", h.CreateGrid)
	api.POST("/pricing-grids/resolve", h.ResolveGrid)
	api.POST("/pricing-grids/diagnose", h.DiagnoseGrid)

	return router, db
}

func seedGrid(t *testing.T, db *gorm.DB, id, code, supplierID, productType, priceGroup string, active bool) {
	t.Helper()
	grid := &entity.PricingGrid{
		ID:          id,
		Name:        "Grid " + code,
		GridCode:    code,
		SupplierID:  supplierID,
		ProductType: productType,
		PriceGroup:  priceGroup,
		Active:      active,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := db.Create(grid).Error; err != nil {
		t.Fatalf("Failed to seed grid: %v", err)
	}
}

func TestGridResolveUniqueMatch(t *testing.T) {
	router, db := setupGridTest(t)
	token := testutil.DefaultTestToken()

	seedGrid(t, db, "grid-001", "RG-A", "sup-1", "roller", "A", true)
	seedGrid(t, db, "grid-002", "RG-B", "sup-1", "roller", "B", true)

	body := map[string]interface{}{"product_type": "roller", "price_group": "A"}
	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/pricing-grids/resolve", body, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	grid, ok := data["grid"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected a resolved grid, got %v", data)
	}
	if grid["grid_code"] != "RG-A" {
		t.Fatalf("expected RG-A, got %v", grid["grid_code"])
	}
}

func TestGridResolveAmbiguous(t *testing.T) {
	router, db := setupGridTest(t)
	token := testutil.DefaultTestToken()

	// Two suppliers carry the same product type and price group
	seedGrid(t, db, "grid-001", "RG-A1", "sup-1", "roller", "A", true)
	seedGrid(t, db, "grid-002", "RG-A2", "sup-2", "roller", "A", true)

	body := map[string]interface{}{"product_type": "roller", "price_group": "A"}
	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/pricing-grids/resolve", body, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["ambiguous"] != true {
		t.Fatalf("expected ambiguous resolution, got %v", data)
	}
	if len(data["candidates"].([]interface{})) != 2 {
		t.Fatalf("expected 2 candidates, got %v", data["candidates"])
	}

	// Narrowing by supplier settles it
	body["supplier_id"] = "sup-2"
	w2 := testutil.DoRequest(router, http.MethodPost, "/api/v1/pricing-grids/resolve", body, token)
	data2 := testutil.ParseResponse(w2)["data"].(map[string]interface{})
	grid, ok := data2["grid"].(map[string]interface{})
	if !ok || grid["grid_code"] != "RG-A2" {
		t.Fatalf("expected RG-A2 after supplier narrowing, got %v", data2)
	}
}

func TestGridDiagnoseMiss(t *testing.T) {
	router, db := setupGridTest(t)
	token := testutil.DefaultTestToken()

	seedGrid(t, db, "grid-001", "RG-A", "sup-1", "roller", "A", true)
	// Inactive grids are invisible to resolution
	seedGrid(t, db, "grid-002", "VG-A", "sup-1", "venetian", "A", false)

	body := map[string]interface{}{"product_type": "venetian", "price_group": "A"}
	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/pricing-grids/diagnose", body, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	issues := data["issues"].([]interface{})
	if len(issues) == 0 {
		t.Fatal("expected diagnosis issues for unknown product type")
	}

	w2 := testutil.DoRequest(router, http.MethodPost, "/api/v1/pricing-grids/resolve",
		map[string]interface{}{"product_type": "venetian", "price_group": "A"}, token)
	data2 := testutil.ParseResponse(w2)["data"].(map[string]interface{})
	if _, ok := data2["grid"]; ok {
		t.Fatalf("expected no grid for inactive combination, got %v", data2["grid"])
	}
}

func TestGridRequiredQueryFields(t *testing.T) {
	router, _ := setupGridTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/pricing-grids/resolve",
		map[string]interface{}{"product_type": "roller"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without price_group, got %d", w.Code)
	}
}
