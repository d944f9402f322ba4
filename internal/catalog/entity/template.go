package entity

import (
	"time"

	"github.com/drapehq/drapehq/internal/catalog/pricing"
)

// CurtainTemplate is the making-rule record a curtain calculation runs
// against. Immutable during calculation; edited only via settings.
type CurtainTemplate struct {
	ID      string `json:"id" gorm:"primaryKey;size:32"`
	Name    string `json:"name" gorm:"size:200;not null"`
	Heading string `json:"heading" gorm:"size:100;not null"`
	Active  bool   `json:"active" gorm:"default:true"`

	FullnessRatio float64 `json:"fullness_ratio" gorm:"type:decimal(6,2);not null"`

	// width allowances, cm
	ReturnLeft   float64 `json:"return_left" gorm:"type:decimal(6,2);default:0"`
	ReturnRight  float64 `json:"return_right" gorm:"type:decimal(6,2);default:0"`
	Overlap      float64 `json:"overlap" gorm:"type:decimal(6,2);default:0"`
	ExtraFixedCM float64 `json:"extra_fixed_cm" gorm:"type:decimal(6,2);default:0"`
	ExtraPercent float64 `json:"extra_percent" gorm:"type:decimal(5,2);default:0"`

	// drop allowances, cm
	HeaderAllowance float64 `json:"header_allowance" gorm:"type:decimal(6,2);default:0"`
	BottomHem       float64 `json:"bottom_hem" gorm:"type:decimal(6,2);default:0"`

	// SeamHemCM has no default; templates that can seam must carry one.
	SeamHemCM *float64 `json:"seam_hem_cm" gorm:"type:decimal(6,2)"`

	WastePercent float64 `json:"waste_percent" gorm:"type:decimal(5,2);default:0"`

	FabricWidthType string `json:"fabric_width_type" gorm:"size:16;default:narrow"` // narrow/wide
	Railroadable    bool   `json:"railroadable" gorm:"default:false"`

	PricingType    string   `json:"pricing_type" gorm:"size:16;not null"` // per_metre/per_drop/per_panel
	PricePerMetre  *float64 `json:"price_per_metre" gorm:"type:decimal(12,2)"`
	PricePerDrop   *float64 `json:"price_per_drop" gorm:"type:decimal(12,2)"`
	PricePerPanel  *float64 `json:"price_per_panel" gorm:"type:decimal(12,2)"`
	UseHeightBands bool     `json:"use_height_bands" gorm:"default:false"`

	ManufacturingType string  `json:"manufacturing_type" gorm:"size:16;default:machine"` // machine/hand
	HandUpchargeFixed float64 `json:"hand_upcharge_fixed" gorm:"type:decimal(12,2);default:0"`
	HandUpchargePct   float64 `json:"hand_upcharge_pct" gorm:"type:decimal(5,2);default:0"`

	UpchargePerMetre   float64 `json:"upcharge_per_metre" gorm:"type:decimal(12,2);default:0"`
	UpchargePerCurtain float64 `json:"upcharge_per_curtain" gorm:"type:decimal(12,2);default:0"`

	CompatibleHardware *JSONBArray `json:"compatible_hardware" gorm:"type:jsonb"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	LiningOptions []TemplateLiningOption `json:"lining_options,omitempty" gorm:"foreignKey:TemplateID"`
	PriceBands    []TemplatePriceBand    `json:"price_bands,omitempty" gorm:"foreignKey:TemplateID"`
}

func (CurtainTemplate) TableName() string {
	return "catalog_curtain_templates"
}

// Pricing types
const (
	PricingTypePerMetre = "per_metre"
	PricingTypePerDrop  = "per_drop"
	PricingTypePerPanel = "per_panel"
)

// TemplateLiningOption is one lining the template can be made with.
type TemplateLiningOption struct {
	ID               string    `json:"id" gorm:"primaryKey;size:32"`
	TemplateID       string    `json:"template_id" gorm:"size:32;not null;index"`
	Type             string    `json:"type" gorm:"size:50;not null"`
	PricePerMetre    float64   `json:"price_per_metre" gorm:"type:decimal(12,2);default:0"`
	LabourPerCurtain float64   `json:"labour_per_curtain" gorm:"type:decimal(12,2);default:0"`
	CreatedAt        time.Time `json:"created_at"`
}

func (TemplateLiningOption) TableName() string {
	return "catalog_template_lining_options"
}

// TemplatePriceBand is one [min,max] drop range with its own per-metre
// make-up rate. Bands must be disjoint; first match wins.
type TemplatePriceBand struct {
	ID         string  `json:"id" gorm:"primaryKey;size:32"`
	TemplateID string  `json:"template_id" gorm:"size:32;not null;index"`
	MinCM      float64 `json:"min_cm" gorm:"type:decimal(7,2);not null"`
	MaxCM      float64 `json:"max_cm" gorm:"type:decimal(7,2);not null"`
	Rate       float64 `json:"rate" gorm:"type:decimal(12,2);not null"`
	SortOrder  int     `json:"sort_order" gorm:"default:0"`
}

func (TemplatePriceBand) TableName() string {
	return "catalog_template_price_bands"
}

// ToPricing converts the stored record into the calculator's immutable
// template form.
func (t *CurtainTemplate) ToPricing() *pricing.Template {
	tpl := &pricing.Template{
		Heading:         t.Heading,
		FullnessRatio:   t.FullnessRatio,
		ReturnLeft:      t.ReturnLeft,
		ReturnRight:     t.ReturnRight,
		Overlap:         t.Overlap,
		ExtraFixedCM:    t.ExtraFixedCM,
		ExtraPercent:    t.ExtraPercent,
		HeaderAllowance: t.HeaderAllowance,
		BottomHem:       t.BottomHem,
		WastePercent:    t.WastePercent,
		FabricWidth:     t.FabricWidthType,
		Railroadable:    t.Railroadable,
		Manufacturing:   t.ManufacturingType,
		Hand: pricing.HandFinishing{
			Fixed:   t.HandUpchargeFixed,
			Percent: t.HandUpchargePct,
		},
		Upcharge: pricing.HeadingUpcharge{
			PerMetre:   t.UpchargePerMetre,
			PerCurtain: t.UpchargePerCurtain,
		},
	}
	if t.SeamHemCM != nil {
		tpl.SeamHemCM = *t.SeamHemCM
	}

	switch t.PricingType {
	case PricingTypePerDrop:
		var price float64
		if t.PricePerDrop != nil {
			price = *t.PricePerDrop
		}
		tpl.MakeUp = pricing.PerDrop{PricePerDrop: price}
	case PricingTypePerPanel:
		var price float64
		if t.PricePerPanel != nil {
			price = *t.PricePerPanel
		}
		tpl.MakeUp = pricing.PerPanel{PricePerPanel: price}
	default:
		pm := pricing.PerMetre{}
		if t.PricePerMetre != nil {
			pm.Rate = *t.PricePerMetre
		}
		if t.UseHeightBands {
			for _, b := range t.PriceBands {
				pm.Bands = append(pm.Bands, pricing.HeightBand{MinCM: b.MinCM, MaxCM: b.MaxCM, Rate: b.Rate})
			}
		}
		tpl.MakeUp = pm
	}

	return tpl
}

// LiningOption returns the lining option with the given type, or nil.
func (t *CurtainTemplate) LiningOption(liningType string) *TemplateLiningOption {
	for i := range t.LiningOptions {
		if t.LiningOptions[i].Type == liningType {
			return &t.LiningOptions[i]
		}
	}
	return nil
}
