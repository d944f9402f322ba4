package repository

import (
	"context"
	"errors"

	"github.com/drapehq/drapehq/internal/catalog/entity"
	"gorm.io/gorm"
)

// GridRepository handles pricing grids.
type GridRepository struct {
	db *gorm.DB
}

func NewGridRepository(db *gorm.DB) *GridRepository {
	return &GridRepository{db: db}
}

func (r *GridRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PricingGrid, int64, error) {
	var grids []entity.PricingGrid
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.PricingGrid{})

	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR grid_code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if productType := filters["product_type"]; productType != "" {
		query = query.Where("product_type = ?", productType)
	}
	if priceGroup := filters["price_group"]; priceGroup != "" {
		query = query.Where("price_group ILIKE ?", priceGroup)
	}
	if active := filters["active"]; active != "" {
		query = query.Where("active = ?", active == "true")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&grids).Error

	return grids, total, err
}

// FindActive loads every active grid, the candidate set for resolution.
func (r *GridRepository) FindActive(ctx context.Context) ([]entity.PricingGrid, error) {
	var grids []entity.PricingGrid
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("grid_code ASC").
		Find(&grids).Error
	return grids, err
}

func (r *GridRepository) FindByID(ctx context.Context, id string) (*entity.PricingGrid, error) {
	var grid entity.PricingGrid
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&grid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &grid, nil
}

func (r *GridRepository) Create(ctx context.Context, grid *entity.PricingGrid) error {
	return r.db.WithContext(ctx).Create(grid).Error
}

func (r *GridRepository) Update(ctx context.Context, grid *entity.PricingGrid) error {
	return r.db.WithContext(ctx).Save(grid).Error
}

func (r *GridRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.PricingGrid{}).Error
}
