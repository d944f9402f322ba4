package service

import (
	"context"

	"github.com/drapehq/drapehq/internal/catalog/entity"
	"github.com/drapehq/drapehq/internal/catalog/pricing"
	"github.com/drapehq/drapehq/internal/catalog/repository"
	"github.com/google/uuid"
)

// ValidationError marks a rejected template payload so handlers can
// answer with a 400 instead of a 500.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// TemplateService manages curtain templates. Every write is validated
// against the calculator's rules before it is stored so a saved template
// can always be priced.
type TemplateService struct {
	repo *repository.TemplateRepository
}

func NewTemplateService(repo *repository.TemplateRepository) *TemplateService {
	return &TemplateService{repo: repo}
}

// LiningOptionInput is one lining choice on the template payload.
type LiningOptionInput struct {
	Type             string  `json:"type" binding:"required"`
	PricePerMetre    float64 `json:"price_per_metre"`
	LabourPerCurtain float64 `json:"labour_per_curtain"`
}

// PriceBandInput is one drop range on the template payload.
type PriceBandInput struct {
	MinCM float64 `json:"min_cm"`
	MaxCM float64 `json:"max_cm"`
	Rate  float64 `json:"rate"`
}

// TemplateRequest is the full template payload, used for both create
// and update. Templates are replaced whole rather than patched; partial
// making rules are not meaningful.
type TemplateRequest struct {
	Name    string `json:"name" binding:"required"`
	Heading string `json:"heading" binding:"required"`
	Active  *bool  `json:"active"`

	FullnessRatio float64 `json:"fullness_ratio" binding:"required"`

	ReturnLeft   float64 `json:"return_left"`
	ReturnRight  float64 `json:"return_right"`
	Overlap      float64 `json:"overlap"`
	ExtraFixedCM float64 `json:"extra_fixed_cm"`
	ExtraPercent float64 `json:"extra_percent"`

	HeaderAllowance float64  `json:"header_allowance"`
	BottomHem       float64  `json:"bottom_hem"`
	SeamHemCM       *float64 `json:"seam_hem_cm"`
	WastePercent    float64  `json:"waste_percent"`

	FabricWidthType string `json:"fabric_width_type"`
	Railroadable    bool   `json:"railroadable"`

	PricingType    string   `json:"pricing_type" binding:"required"`
	PricePerMetre  *float64 `json:"price_per_metre"`
	PricePerDrop   *float64 `json:"price_per_drop"`
	PricePerPanel  *float64 `json:"price_per_panel"`
	UseHeightBands bool     `json:"use_height_bands"`

	ManufacturingType string  `json:"manufacturing_type"`
	HandUpchargeFixed float64 `json:"hand_upcharge_fixed"`
	HandUpchargePct   float64 `json:"hand_upcharge_pct"`

	UpchargePerMetre   float64 `json:"upcharge_per_metre"`
	UpchargePerCurtain float64 `json:"upcharge_per_curtain"`

	CompatibleHardware *entity.JSONBArray `json:"compatible_hardware"`

	LiningOptions []LiningOptionInput `json:"lining_options"`
	PriceBands    []PriceBandInput    `json:"price_bands"`
}

func (s *TemplateService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.CurtainTemplate, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

func (s *TemplateService) Get(ctx context.Context, id string) (*entity.CurtainTemplate, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TemplateService) Create(ctx context.Context, userID string, req *TemplateRequest) (*entity.CurtainTemplate, error) {
	template := buildTemplate(uuid.New().String()[:32], req)
	template.CreatedBy = userID

	if err := pricing.ValidateTemplate(template.ToPricing()); err != nil {
		return nil, &ValidationError{Err: err}
	}

	if err := s.repo.Create(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

func (s *TemplateService) Update(ctx context.Context, id string, req *TemplateRequest) (*entity.CurtainTemplate, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	template := buildTemplate(id, req)
	template.CreatedBy = existing.CreatedBy
	template.CreatedAt = existing.CreatedAt

	if err := pricing.ValidateTemplate(template.ToPricing()); err != nil {
		return nil, &ValidationError{Err: err}
	}

	if err := s.repo.Update(ctx, template); err != nil {
		return nil, err
	}
	return template, nil
}

func (s *TemplateService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func buildTemplate(id string, req *TemplateRequest) *entity.CurtainTemplate {
	template := &entity.CurtainTemplate{
		ID:      id,
		Name:    req.Name,
		Heading: req.Heading,
		Active:  true,

		FullnessRatio: req.FullnessRatio,

		ReturnLeft:   req.ReturnLeft,
		ReturnRight:  req.ReturnRight,
		Overlap:      req.Overlap,
		ExtraFixedCM: req.ExtraFixedCM,
		ExtraPercent: req.ExtraPercent,

		HeaderAllowance: req.HeaderAllowance,
		BottomHem:       req.BottomHem,
		SeamHemCM:       req.SeamHemCM,
		WastePercent:    req.WastePercent,

		FabricWidthType: req.FabricWidthType,
		Railroadable:    req.Railroadable,

		PricingType:    req.PricingType,
		PricePerMetre:  req.PricePerMetre,
		PricePerDrop:   req.PricePerDrop,
		PricePerPanel:  req.PricePerPanel,
		UseHeightBands: req.UseHeightBands,

		ManufacturingType: req.ManufacturingType,
		HandUpchargeFixed: req.HandUpchargeFixed,
		HandUpchargePct:   req.HandUpchargePct,

		UpchargePerMetre:   req.UpchargePerMetre,
		UpchargePerCurtain: req.UpchargePerCurtain,

		CompatibleHardware: req.CompatibleHardware,
	}
	if req.Active != nil {
		template.Active = *req.Active
	}
	if template.FabricWidthType == "" {
		template.FabricWidthType = pricing.FabricWidthNarrow
	}
	if template.ManufacturingType == "" {
		template.ManufacturingType = pricing.ManufacturingMachine
	}

	for _, o := range req.LiningOptions {
		template.LiningOptions = append(template.LiningOptions, entity.TemplateLiningOption{
			ID:               uuid.New().String()[:32],
			TemplateID:       id,
			Type:             o.Type,
			PricePerMetre:    o.PricePerMetre,
			LabourPerCurtain: o.LabourPerCurtain,
		})
	}
	for i, b := range req.PriceBands {
		template.PriceBands = append(template.PriceBands, entity.TemplatePriceBand{
			ID:         uuid.New().String()[:32],
			TemplateID: id,
			MinCM:      b.MinCM,
			MaxCM:      b.MaxCM,
			Rate:       b.Rate,
			SortOrder:  i,
		})
	}

	return template
}
