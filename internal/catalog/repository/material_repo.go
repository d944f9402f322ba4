package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/drapehq/drapehq/internal/catalog/entity"
	"gorm.io/gorm"
)

// MaterialRepository handles inventory items.
type MaterialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// FindAll lists materials with pagination and filters.
func (r *MaterialRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Material, int64, error) {
	var items []entity.Material
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Material{})

	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR sku ILIKE ? OR colour ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}
	if category := filters["category"]; category != "" {
		query = query.Where("category = ?", category)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if supplierID := filters["supplier_id"]; supplierID != "" {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if priceGroup := filters["price_group"]; priceGroup != "" {
		query = query.Where("price_group ILIKE ?", priceGroup)
	}
	if filters["low_stock"] == "true" {
		query = query.Where("reorder_point > 0 AND stock_quantity <= reorder_point")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Supplier").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindAllActive loads every active material, for export.
func (r *MaterialRepository) FindAllActive(ctx context.Context) ([]entity.Material, error) {
	var items []entity.Material
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.MaterialStatusActive).
		Order("sku ASC").
		Find(&items).Error
	return items, err
}

func (r *MaterialRepository) FindByID(ctx context.Context, id string) (*entity.Material, error) {
	var material entity.Material
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Where("id = ?", id).
		First(&material).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// FindBySKU finds a material by SKU, for import upserts.
func (r *MaterialRepository) FindBySKU(ctx context.Context, sku string) (*entity.Material, error) {
	var material entity.Material
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&material).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

func (r *MaterialRepository) Create(ctx context.Context, material *entity.Material) error {
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *MaterialRepository) Update(ctx context.Context, material *entity.Material) error {
	return r.db.WithContext(ctx).Save(material).Error
}

func (r *MaterialRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Material{}).Error
}

// AdjustStock applies a movement and updates the cached quantity in one
// transaction.
func (r *MaterialRepository) AdjustStock(ctx context.Context, movement *entity.StockMovement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(movement).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Material{}).
			Where("id = ?", movement.MaterialID).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", movement.Quantity)).
			Error
	})
}

// FindMovements lists movements for one material, newest first.
func (r *MaterialRepository) FindMovements(ctx context.Context, materialID string, limit int) ([]entity.StockMovement, error) {
	var movements []entity.StockMovement
	err := r.db.WithContext(ctx).
		Where("material_id = ?", materialID).
		Order("created_at DESC").
		Limit(limit).
		Find(&movements).Error
	return movements, err
}

// GenerateSKU allocates the next SKU with the given category prefix.
func (r *MaterialRepository) GenerateSKU(ctx context.Context, prefix string) (string, error) {
	var maxSKU string
	err := r.db.WithContext(ctx).
		Model(&entity.Material{}).
		Where("sku LIKE ?", prefix+"-%").
		Select(fmt.Sprintf("COALESCE(MAX(sku), '%s-0000')", prefix)).
		Scan(&maxSKU).Error
	if err != nil {
		return "", err
	}

	var seq int
	fmt.Sscanf(maxSKU, prefix+"-%04d", &seq)
	seq++
	return fmt.Sprintf("%s-%04d", prefix, seq), nil
}
