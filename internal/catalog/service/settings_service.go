package service

import (
	"context"
	"time"

	"github.com/drapehq/drapehq/internal/catalog/entity"
	"github.com/drapehq/drapehq/internal/catalog/repository"
)

// SettingsService manages the account cost settings.
type SettingsService struct {
	repo *repository.SettingsRepository
}

func NewSettingsService(repo *repository.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// UpdateSettingsRequest is the partial settings payload.
type UpdateSettingsRequest struct {
	FabricPerMetre   *float64 `json:"fabric_per_metre"`
	LiningPerMetre   *float64 `json:"lining_per_metre"`
	HardwarePerMetre *float64 `json:"hardware_per_metre"`
	TaxPercent       *float64 `json:"tax_percent"`
	Currency         *string  `json:"currency"`
}

func (s *SettingsService) Get(ctx context.Context) (*entity.CostSettings, error) {
	return s.repo.Get(ctx)
}

func (s *SettingsService) Update(ctx context.Context, userID string, req *UpdateSettingsRequest) (*entity.CostSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if req.FabricPerMetre != nil {
		settings.FabricPerMetre = *req.FabricPerMetre
	}
	if req.LiningPerMetre != nil {
		settings.LiningPerMetre = *req.LiningPerMetre
	}
	if req.HardwarePerMetre != nil {
		settings.HardwarePerMetre = *req.HardwarePerMetre
	}
	if req.TaxPercent != nil {
		settings.TaxPercent = *req.TaxPercent
	}
	if req.Currency != nil {
		settings.Currency = *req.Currency
	}
	settings.UpdatedBy = userID
	settings.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
