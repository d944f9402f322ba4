package repository

import (
	"context"
	"errors"

	"github.com/drapehq/drapehq/internal/catalog/entity"
	"gorm.io/gorm"
)

// SettingsRepository handles the cost settings singleton row.
type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the settings row, creating the default one if missing.
func (r *SettingsRepository) Get(ctx context.Context) (*entity.CostSettings, error) {
	var settings entity.CostSettings
	err := r.db.WithContext(ctx).
		Where("id = ?", entity.CostSettingsID).
		First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			settings = entity.DefaultCostSettings()
			if createErr := r.db.WithContext(ctx).Create(&settings).Error; createErr != nil {
				return nil, createErr
			}
			return &settings, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (r *SettingsRepository) Update(ctx context.Context, settings *entity.CostSettings) error {
	settings.ID = entity.CostSettingsID
	return r.db.WithContext(ctx).Save(settings).Error
}
