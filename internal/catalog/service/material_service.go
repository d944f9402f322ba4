package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/drapehq/drapehq/internal/catalog/entity"
	"github.com/drapehq/drapehq/internal/catalog/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
)

const materialCacheTTL = 5 * time.Minute

// MaterialService manages the inventory library.
type MaterialService struct {
	repo *repository.MaterialRepository
	rdb  *redis.Client
}

func NewMaterialService(repo *repository.MaterialRepository, rdb *redis.Client) *MaterialService {
	return &MaterialService{repo: repo, rdb: rdb}
}

// CreateMaterialRequest is the create payload.
type CreateMaterialRequest struct {
	Name          string   `json:"name" binding:"required"`
	Category      string   `json:"category" binding:"required"`
	SupplierID    *string  `json:"supplier_id"`
	ProductType   string   `json:"product_type"`
	PriceGroup    string   `json:"price_group"`
	FabricWidthCM *float64 `json:"fabric_width_cm"`
	Composition   string   `json:"composition"`
	Colour        string   `json:"colour"`
	PatternRepeat *float64 `json:"pattern_repeat"`
	Unit          string   `json:"unit"`
	CostPerUnit   *float64 `json:"cost_per_unit"`
	PricePerUnit  *float64 `json:"price_per_unit"`
	StockQuantity float64  `json:"stock_quantity"`
	ReorderPoint  float64  `json:"reorder_point"`
	ImageURL      string   `json:"image_url"`
	Notes         string   `json:"notes"`
}

// UpdateMaterialRequest is the partial update payload.
type UpdateMaterialRequest struct {
	Name          *string  `json:"name"`
	Category      *string  `json:"category"`
	Status        *string  `json:"status"`
	SupplierID    *string  `json:"supplier_id"`
	ProductType   *string  `json:"product_type"`
	PriceGroup    *string  `json:"price_group"`
	FabricWidthCM *float64 `json:"fabric_width_cm"`
	Composition   *string  `json:"composition"`
	Colour        *string  `json:"colour"`
	PatternRepeat *float64 `json:"pattern_repeat"`
	Unit          *string  `json:"unit"`
	CostPerUnit   *float64 `json:"cost_per_unit"`
	PricePerUnit  *float64 `json:"price_per_unit"`
	ReorderPoint  *float64 `json:"reorder_point"`
	ImageURL      *string  `json:"image_url"`
	Notes         *string  `json:"notes"`
}

// skuPrefixes maps material categories to SKU prefixes.
var skuPrefixes = map[string]string{
	entity.MaterialCategoryFabric:   "FAB",
	entity.MaterialCategoryLining:   "LIN",
	entity.MaterialCategoryHardware: "HRD",
	entity.MaterialCategoryTrack:    "TRK",
	entity.MaterialCategoryTrimming: "TRM",
}

func (s *MaterialService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Material, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get returns one material, serving repeat reads from cache.
func (s *MaterialService) Get(ctx context.Context, id string) (*entity.Material, error) {
	cacheKey := "catalog:material:" + id
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var material entity.Material
			if json.Unmarshal([]byte(cached), &material) == nil {
				return &material, nil
			}
		}
	}

	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(material); err == nil {
			s.rdb.Set(ctx, cacheKey, data, materialCacheTTL)
		}
	}
	return material, nil
}

func (s *MaterialService) Create(ctx context.Context, userID string, req *CreateMaterialRequest) (*entity.Material, error) {
	prefix, ok := skuPrefixes[req.Category]
	if !ok {
		return nil, fmt.Errorf("unknown material category %q", req.Category)
	}
	sku, err := s.repo.GenerateSKU(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("generate sku: %w", err)
	}

	unit := req.Unit
	if unit == "" {
		unit = "m"
	}

	material := &entity.Material{
		ID:            uuid.New().String()[:32],
		SKU:           sku,
		Name:          req.Name,
		Category:      req.Category,
		Status:        entity.MaterialStatusActive,
		SupplierID:    req.SupplierID,
		ProductType:   req.ProductType,
		PriceGroup:    req.PriceGroup,
		FabricWidthCM: req.FabricWidthCM,
		Composition:   req.Composition,
		Colour:        req.Colour,
		PatternRepeat: req.PatternRepeat,
		Unit:          unit,
		CostPerUnit:   req.CostPerUnit,
		PricePerUnit:  req.PricePerUnit,
		StockQuantity: req.StockQuantity,
		ReorderPoint:  req.ReorderPoint,
		ImageURL:      req.ImageURL,
		Notes:         req.Notes,
		CreatedBy:     userID,
	}

	if err := s.repo.Create(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

func (s *MaterialService) Update(ctx context.Context, id string, req *UpdateMaterialRequest) (*entity.Material, error) {
	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		material.Name = *req.Name
	}
	if req.Category != nil {
		material.Category = *req.Category
	}
	if req.Status != nil {
		material.Status = *req.Status
	}
	if req.SupplierID != nil {
		material.SupplierID = req.SupplierID
	}
	if req.ProductType != nil {
		material.ProductType = *req.ProductType
	}
	if req.PriceGroup != nil {
		material.PriceGroup = *req.PriceGroup
	}
	if req.FabricWidthCM != nil {
		material.FabricWidthCM = req.FabricWidthCM
	}
	if req.Composition != nil {
		material.Composition = *req.Composition
	}
	if req.Colour != nil {
		material.Colour = *req.Colour
	}
	if req.PatternRepeat != nil {
		material.PatternRepeat = req.PatternRepeat
	}
	if req.Unit != nil {
		material.Unit = *req.Unit
	}
	if req.CostPerUnit != nil {
		material.CostPerUnit = req.CostPerUnit
	}
	if req.PricePerUnit != nil {
		material.PricePerUnit = req.PricePerUnit
	}
	if req.ReorderPoint != nil {
		material.ReorderPoint = *req.ReorderPoint
	}
	if req.ImageURL != nil {
		material.ImageURL = *req.ImageURL
	}
	if req.Notes != nil {
		material.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, material); err != nil {
		return nil, err
	}
	s.clearCache(ctx, id)
	return material, nil
}

func (s *MaterialService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.clearCache(ctx, id)
	return nil
}

// AdjustStockRequest is the manual stock adjustment payload.
type AdjustStockRequest struct {
	Quantity  float64 `json:"quantity" binding:"required"`
	Reason    string  `json:"reason" binding:"required"`
	Reference string  `json:"reference"`
}

// AdjustStock records a movement against the material.
func (s *MaterialService) AdjustStock(ctx context.Context, userID, materialID string, req *AdjustStockRequest) (*entity.StockMovement, error) {
	if _, err := s.repo.FindByID(ctx, materialID); err != nil {
		return nil, err
	}

	movement := &entity.StockMovement{
		ID:         uuid.New().String()[:32],
		MaterialID: materialID,
		Quantity:   req.Quantity,
		Reason:     req.Reason,
		Reference:  req.Reference,
		CreatedBy:  userID,
	}
	if err := s.repo.AdjustStock(ctx, movement); err != nil {
		return nil, err
	}
	s.clearCache(ctx, materialID)
	return movement, nil
}

// DeductForQuote deducts the fabric metres consumed by an accepted quote.
func (s *MaterialService) DeductForQuote(ctx context.Context, userID, materialID string, metres float64, quoteNumber string) error {
	if metres <= 0 {
		return nil
	}
	movement := &entity.StockMovement{
		ID:         uuid.New().String()[:32],
		MaterialID: materialID,
		Quantity:   -metres,
		Reason:     "quote_accepted",
		Reference:  quoteNumber,
		CreatedBy:  userID,
	}
	if err := s.repo.AdjustStock(ctx, movement); err != nil {
		return err
	}
	s.clearCache(ctx, materialID)
	return nil
}

func (s *MaterialService) ListMovements(ctx context.Context, materialID string, limit int) ([]entity.StockMovement, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.FindMovements(ctx, materialID, limit)
}

func (s *MaterialService) clearCache(ctx context.Context, id string) {
	if s.rdb != nil {
		s.rdb.Del(ctx, "catalog:material:"+id)
	}
}

var materialExportHeaders = []string{
	"SKU", "Name", "Category", "Product Type", "Price Group", "Supplier Code",
	"Width (cm)", "Composition", "Colour", "Pattern Repeat", "Unit",
	"Cost/Unit", "Price/Unit", "Stock", "Reorder Point", "Notes",
}

// Export writes every active material to an xlsx workbook.
func (s *MaterialService) Export(ctx context.Context) (*excelize.File, string, error) {
	items, err := s.repo.FindAllActive(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("list materials: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Materials"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range materialExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, item := range items {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), item.SKU)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), item.Name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), item.Category)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), item.ProductType)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), item.PriceGroup)
		if item.Supplier != nil {
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), item.Supplier.Code)
		}
		if item.FabricWidthCM != nil {
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), *item.FabricWidthCM)
		}
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), item.Composition)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), item.Colour)
		if item.PatternRepeat != nil {
			f.SetCellValue(sheet, fmt.Sprintf("J%d", row), *item.PatternRepeat)
		}
		f.SetCellValue(sheet, fmt.Sprintf("K%d", row), item.Unit)
		if item.CostPerUnit != nil {
			f.SetCellValue(sheet, fmt.Sprintf("L%d", row), *item.CostPerUnit)
		}
		if item.PricePerUnit != nil {
			f.SetCellValue(sheet, fmt.Sprintf("M%d", row), *item.PricePerUnit)
		}
		f.SetCellValue(sheet, fmt.Sprintf("N%d", row), item.StockQuantity)
		f.SetCellValue(sheet, fmt.Sprintf("O%d", row), item.ReorderPoint)
		f.SetCellValue(sheet, fmt.Sprintf("P%d", row), item.Notes)
	}

	colWidths := []float64{12, 24, 10, 14, 12, 12, 10, 20, 14, 12, 6, 10, 10, 8, 8, 24}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("materials_%s.xlsx", time.Now().Format("20060102"))
	return f, filename, nil
}

// ImportResult summarises an xlsx import.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// Import upserts materials from an xlsx workbook in the export layout.
// Rows are matched on SKU; rows without a SKU create new records.
func (s *MaterialService) Import(ctx context.Context, userID string, f *excelize.File) (*ImportResult, error) {
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read excel: %w", err)
	}

	result := &ImportResult{}
	if len(rows) < 2 {
		return result, nil
	}

	for _, row := range rows[1:] {
		if len(row) < 3 || row[1] == "" {
			result.Failed++
			continue
		}

		sku := strings.TrimSpace(cell(row, 0))
		category := strings.ToLower(strings.TrimSpace(cell(row, 2)))
		if _, ok := skuPrefixes[category]; !ok {
			result.Failed++
			continue
		}

		var material *entity.Material
		existing := false
		if sku != "" {
			if found, err := s.repo.FindBySKU(ctx, sku); err == nil {
				material = found
				existing = true
			}
		}
		if material == nil {
			if sku == "" {
				sku, err = s.repo.GenerateSKU(ctx, skuPrefixes[category])
				if err != nil {
					return nil, fmt.Errorf("generate sku: %w", err)
				}
			}
			material = &entity.Material{
				ID:        uuid.New().String()[:32],
				SKU:       sku,
				Status:    entity.MaterialStatusActive,
				CreatedBy: userID,
			}
		}

		material.Name = cell(row, 1)
		material.Category = category
		material.ProductType = cell(row, 3)
		material.PriceGroup = cell(row, 4)
		if v, err := strconv.ParseFloat(cell(row, 6), 64); err == nil {
			material.FabricWidthCM = &v
		}
		material.Composition = cell(row, 7)
		material.Colour = cell(row, 8)
		if v, err := strconv.ParseFloat(cell(row, 9), 64); err == nil {
			material.PatternRepeat = &v
		}
		if u := cell(row, 10); u != "" {
			material.Unit = u
		} else if material.Unit == "" {
			material.Unit = "m"
		}
		if v, err := strconv.ParseFloat(cell(row, 11), 64); err == nil {
			material.CostPerUnit = &v
		}
		if v, err := strconv.ParseFloat(cell(row, 12), 64); err == nil {
			material.PricePerUnit = &v
		}
		if v, err := strconv.ParseFloat(cell(row, 13), 64); err == nil && !existing {
			material.StockQuantity = v
		}
		if v, err := strconv.ParseFloat(cell(row, 14), 64); err == nil {
			material.ReorderPoint = v
		}
		material.Notes = cell(row, 15)

		if existing {
			if err := s.repo.Update(ctx, material); err != nil {
				result.Failed++
				continue
			}
			s.clearCache(ctx, material.ID)
			result.Updated++
		} else {
			if err := s.repo.Create(ctx, material); err != nil {
				result.Failed++
				continue
			}
			result.Created++
		}
	}

	return result, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}
