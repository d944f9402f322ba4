package repository

import (
	"context"
	"errors"

	"github.com/drapehq/drapehq/internal/catalog/entity"
	"gorm.io/gorm"
)

// TemplateRepository handles curtain templates and their child rows.
type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.CurtainTemplate, int64, error) {
	var templates []entity.CurtainTemplate
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.CurtainTemplate{})

	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR heading_name ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if pricingType := filters["pricing_type"]; pricingType != "" {
		query = query.Where("pricing_type = ?", pricingType)
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
		Find(&templates).Error

	return templates, total, err
}

func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*entity.CurtainTemplate, error) {
	var template entity.CurtainTemplate
	err := r.db.WithContext(ctx).
		Preload("LiningOptions").
		Preload("PriceBands").
		Where("id = ?", id).
		First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// Create inserts the template together with its lining options and bands.
func (r *TemplateRepository) Create(ctx context.Context, template *entity.CurtainTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

// Update saves the template and replaces its child rows.
func (r *TemplateRepository) Update(ctx context.Context, template *entity.CurtainTemplate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", template.ID).Delete(&entity.TemplateLiningOption{}).Error; err != nil {
			return err
		}
		if err := tx.Where("template_id = ?", template.ID).Delete(&entity.TemplatePriceBand{}).Error; err != nil {
			return err
		}
		return tx.Save(template).Error
	})
}

func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", id).Delete(&entity.TemplateLiningOption{}).Error; err != nil {
			return err
		}
		if err := tx.Where("template_id = ?", id).Delete(&entity.TemplatePriceBand{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.CurtainTemplate{}).Error
	})
}
