package handler

import (
	"net/http"
	"testing"
	"time"

	catalogentity "github.com/drapehq/drapehq/internal/catalog/entity"
	catalogrepo "github.com/drapehq/drapehq/internal/catalog/repository"
	catalogsvc "github.com/drapehq/drapehq/internal/catalog/service"
	"github.com/drapehq/drapehq/internal/crm/repository"
	"github.com/drapehq/drapehq/internal/crm/service"
	"github.com/drapehq/drapehq/internal/testutil"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func setupQuoteTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	catalogRepos := catalogrepo.NewRepositories(db)
	catalogServices := catalogsvc.NewServices(catalogRepos, nil)

	crmRepos := repository.NewRepositories(db)
	quoteSvc := service.NewQuoteService(
		crmRepos.Quote,
		crmRepos.Client,
		crmRepos.Project,
		catalogServices.Calc,
		catalogServices.Material,
		catalogServices.Settings,
		nil,
		nil,
	)
	h := NewQuoteHandler(quoteSvc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/quotes/:id", h.GetQuote)
	api.POST("/quotes", h.CreateQuote)
	api.PUT("/quotes/:id", h.UpdateQuote)
	api.PUT("/quotes/:id/status", h.UpdateQuoteStatus)
	api.POST("/quotes/:id/items", h.AddLineItem)
	api.DELETE("/quotes/:id/items/:itemId", h.RemoveLineItem)

	return router, db
}

func seedQuoteTestData(t *testing.T, db *gorm.DB) (clientID, templateID, fabricID string) {
	t.Helper()

	testutil.SeedTestClient(t, db, "client-001", "CL-0001", "Mrs Harper")

	price := 28.5
	seamHem := 1.5
	template := &catalogentity.CurtainTemplate{
		ID:                "tpl-001",
		Name:              "Pencil Pleat",
		Heading:           "pencil_pleat",
		Active:            true,
		FullnessRatio:     2.2,
		ReturnLeft:        7.5,
		ReturnRight:       7.5,
		Overlap:           10,
		HeaderAllowance:   20,
		BottomHem:         15,
		SeamHemCM:         &seamHem,
		WastePercent:      5,
		FabricWidthType:   "narrow",
		PricingType:       catalogentity.PricingTypePerMetre,
		PricePerMetre:     &price,
		ManufacturingType: "machine",
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	if err := db.Create(template).Error; err != nil {
		t.Fatalf("Failed to seed template: %v", err)
	}

	fabricPrice := 32.0
	fabricWidth := 140.0
	fabric := &catalogentity.Material{
		ID:            "mat-001",
		SKU:           "FAB-0001",
		Name:          "Linen Weave Oat",
		Category:      catalogentity.MaterialCategoryFabric,
		Status:        catalogentity.MaterialStatusActive,
		FabricWidthCM: &fabricWidth,
		Unit:          "m",
		PricePerUnit:  &fabricPrice,
		StockQuantity: 100,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := db.Create(fabric).Error; err != nil {
		t.Fatalf("Failed to seed fabric: %v", err)
	}

	return "client-001", template.ID, fabric.ID
}

func TestQuoteLifecycle(t *testing.T) {
	router, db := setupQuoteTest(t)
	token := testutil.DefaultTestToken()
	clientID, templateID, fabricID := seedQuoteTestData(t, db)

	// Create a draft quote
	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/quotes",
		map[string]interface{}{"client_id": clientID}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"] != "draft" {
		t.Fatalf("expected draft, got %v", data["status"])
	}
	if data["tax_percent"].(float64) != 20 {
		t.Fatalf("expected default tax 20, got %v", data["tax_percent"])
	}
	quoteID := data["id"].(string)

	// Sending an empty quote is rejected
	w2 := testutil.DoRequest(router, http.MethodPut, "/api/v1/quotes/"+quoteID+"/status",
		map[string]interface{}{"status": "sent"}, token)
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 sending empty quote, got %d: %s", w2.Code, w2.Body.String())
	}

	// Add a calculated line
	w3 := testutil.DoRequest(router, http.MethodPost, "/api/v1/quotes/"+quoteID+"/items",
		map[string]interface{}{
			"room":               "Living Room",
			"template_id":        templateID,
			"rail_width_cm":      200,
			"drop_cm":            220,
			"paired":             true,
			"fabric_material_id": fabricID,
			"quantity":           1,
		}, token)
	if w3.Code != http.StatusOK {
		t.Fatalf("expected 200 adding line, got %d: %s", w3.Code, w3.Body.String())
	}
	data3 := testutil.ParseResponse(w3)["data"].(map[string]interface{})
	items := data3["line_items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 line item, got %d", len(items))
	}
	line := items[0].(map[string]interface{})
	if line["line_total"].(float64) <= 0 {
		t.Fatalf("expected a priced line, got %v", line["line_total"])
	}
	subtotal := data3["subtotal"].(float64)
	total := data3["total"].(float64)
	if subtotal <= 0 || total <= subtotal {
		t.Fatalf("expected total above subtotal with tax, got subtotal=%v total=%v", subtotal, total)
	}

	// Send, then accept
	w4 := testutil.DoRequest(router, http.MethodPut, "/api/v1/quotes/"+quoteID+"/status",
		map[string]interface{}{"status": "sent"}, token)
	if w4.Code != http.StatusOK {
		t.Fatalf("expected 200 sending quote, got %d: %s", w4.Code, w4.Body.String())
	}
	data4 := testutil.ParseResponse(w4)["data"].(map[string]interface{})
	if data4["sent_at"] == nil {
		t.Fatal("expected sent_at to be stamped")
	}

	// Sent quotes are frozen
	w5 := testutil.DoRequest(router, http.MethodPost, "/api/v1/quotes/"+quoteID+"/items",
		map[string]interface{}{"template_id": templateID, "rail_width_cm": 100, "drop_cm": 150}, token)
	if w5.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 editing sent quote, got %d", w5.Code)
	}

	w6 := testutil.DoRequest(router, http.MethodPut, "/api/v1/quotes/"+quoteID+"/status",
		map[string]interface{}{"status": "accepted"}, token)
	if w6.Code != http.StatusOK {
		t.Fatalf("expected 200 accepting quote, got %d: %s", w6.Code, w6.Body.String())
	}

	// Acceptance draws the fabric down from stock
	var fabric catalogentity.Material
	db.Where("id = ?", fabricID).First(&fabric)
	if fabric.StockQuantity >= 100 {
		t.Fatalf("expected stock deduction on acceptance, stock still %v", fabric.StockQuantity)
	}

	var movements int64
	db.Model(&catalogentity.StockMovement{}).Where("material_id = ?", fabricID).Count(&movements)
	if movements != 1 {
		t.Fatalf("expected 1 stock movement, got %d", movements)
	}

	// Accepted is terminal
	w7 := testutil.DoRequest(router, http.MethodPut, "/api/v1/quotes/"+quoteID+"/status",
		map[string]interface{}{"status": "declined"}, token)
	if w7.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 leaving accepted, got %d", w7.Code)
	}
}

func TestQuoteDeclinedCanBeResent(t *testing.T) {
	router, db := setupQuoteTest(t)
	token := testutil.DefaultTestToken()
	clientID, templateID, _ := seedQuoteTestData(t, db)

	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/quotes",
		map[string]interface{}{"client_id": clientID}, token)
	quoteID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	// Unpriced fabric falls back to estimate rates and still quotes
	w2 := testutil.DoRequest(router, http.MethodPost, "/api/v1/quotes/"+quoteID+"/items",
		map[string]interface{}{"template_id": templateID, "rail_width_cm": 150, "drop_cm": 200}, token)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w2.Code, w2.Body.String())
	}

	for _, status := range []string{"sent", "declined", "sent"} {
		w3 := testutil.DoRequest(router, http.MethodPut, "/api/v1/quotes/"+quoteID+"/status",
			map[string]interface{}{"status": status}, token)
		if w3.Code != http.StatusOK {
			t.Fatalf("expected 200 moving to %s, got %d: %s", status, w3.Code, w3.Body.String())
		}
	}
}
