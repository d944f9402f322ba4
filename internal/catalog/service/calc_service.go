package service

import (
	"context"
	"fmt"

	"github.com/drapehq/drapehq/internal/catalog/pricing"
	"github.com/drapehq/drapehq/internal/catalog/repository"
)

// CalcService runs curtain calculations. It reads templates, inventory
// and cost settings but never writes anything; a calculation is a pure
// quote-time preview until a line item is saved from it.
type CalcService struct {
	templateRepo *repository.TemplateRepository
	materialRepo *repository.MaterialRepository
	settingsRepo *repository.SettingsRepository
}

func NewCalcService(templateRepo *repository.TemplateRepository, materialRepo *repository.MaterialRepository, settingsRepo *repository.SettingsRepository) *CalcService {
	return &CalcService{
		templateRepo: templateRepo,
		materialRepo: materialRepo,
		settingsRepo: settingsRepo,
	}
}

// CalcRequest is one curtain calculation enquiry.
type CalcRequest struct {
	TemplateID  string  `json:"template_id" binding:"required"`
	RailWidthCM float64 `json:"rail_width_cm" binding:"required"`
	DropCM      float64 `json:"drop_cm" binding:"required"`
	Pooling     string  `json:"pooling"`
	Paired      bool    `json:"paired"`

	// Optional inventory selections. Prices fall back to the flat
	// estimate rates when absent.
	FabricMaterialID   string `json:"fabric_material_id"`
	HardwareMaterialID string `json:"hardware_material_id"`
	LiningType         string `json:"lining_type"`
}

// CalcResponse pairs the breakdown with the inputs it answered.
type CalcResponse struct {
	TemplateID   string          `json:"template_id"`
	TemplateName string          `json:"template_name"`
	Estimated    bool            `json:"estimated"`
	Result       *pricing.Result `json:"result"`
}

// Calculate prices one curtain. Estimated is true when any cost in the
// answer came from the flat estimate rates rather than a selected item.
func (s *CalcService) Calculate(ctx context.Context, req *CalcRequest) (*CalcResponse, error) {
	record, err := s.templateRepo.FindByID(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cost settings: %w", err)
	}

	in := pricing.Input{
		RailWidthCM: req.RailWidthCM,
		DropCM:      req.DropCM,
		Pooling:     req.Pooling,
		Paired:      req.Paired,
	}

	estimated := false

	if req.FabricMaterialID != "" {
		fabric, err := s.materialRepo.FindByID(ctx, req.FabricMaterialID)
		if err != nil {
			return nil, fmt.Errorf("fabric material: %w", err)
		}
		if fabric.PricePerUnit != nil && *fabric.PricePerUnit > 0 {
			in.FabricPricePerMetre = *fabric.PricePerUnit
		} else {
			estimated = true
		}
	} else {
		estimated = true
	}

	if req.HardwareMaterialID != "" {
		hardware, err := s.materialRepo.FindByID(ctx, req.HardwareMaterialID)
		if err != nil {
			return nil, fmt.Errorf("hardware material: %w", err)
		}
		if hardware.PricePerUnit != nil && *hardware.PricePerUnit > 0 {
			in.HardwarePricePerMetre = *hardware.PricePerUnit
		} else {
			estimated = true
		}
	}

	if req.LiningType != "" {
		option := record.LiningOption(req.LiningType)
		if option == nil {
			return nil, fmt.Errorf("template has no lining option %q", req.LiningType)
		}
		in.Lining = &pricing.Lining{
			Type:             option.Type,
			PricePerMetre:    option.PricePerMetre,
			LabourPerCurtain: option.LabourPerCurtain,
		}
	}

	result, err := pricing.Calculate(record.ToPricing(), in, settings.Rates())
	if err != nil {
		return nil, err
	}

	return &CalcResponse{
		TemplateID:   record.ID,
		TemplateName: record.Name,
		Estimated:    estimated,
		Result:       result,
	}, nil
}
