package pricing

import (
	"errors"
	"math"
)

// Standard fabric bolt widths in centimetres.
const (
	StandardWidthNarrow = 140.0
	StandardWidthWide   = 280.0
)

// Pooling allowances added to the finished drop, in centimetres.
const (
	PoolingAllowancePuddle = 15.0
	PoolingAllowanceBreak  = 2.0
)

var (
	// ErrMissingMeasurements is returned when rail width or drop is absent.
	ErrMissingMeasurements = errors.New("missing measurements")
	// ErrMissingTemplate is returned when no template is supplied.
	ErrMissingTemplate = errors.New("missing template")
	// ErrSeamHemRequired is returned when the layout needs seams but the
	// template carries no seam hem allowance. The allowance has no default.
	ErrSeamHemRequired = errors.New("seam hem allowance required")
	// ErrOverlappingBands is returned when height price bands overlap.
	ErrOverlappingBands = errors.New("height price bands overlap")
)

// Pooling styles
const (
	PoolingNone   = "no_pooling"
	PoolingBreak  = "break"
	PoolingPuddle = "puddle"
)

// Fabric width types
const (
	FabricWidthNarrow = "narrow"
	FabricWidthWide   = "wide"
)

// Manufacturing types
const (
	ManufacturingMachine = "machine"
	ManufacturingHand    = "hand"
)

// MakeUp is the make-up pricing method. Exactly one of PerMetre, PerDrop
// or PerPanel is carried by a template.
type MakeUp interface {
	makeUp()
}

// HeightBand maps a finished-drop range [MinCM, MaxCM] to a per-metre rate.
type HeightBand struct {
	MinCM float64 `json:"min_cm"`
	MaxCM float64 `json:"max_cm"`
	Rate  float64 `json:"rate"`
}

// PerMetre prices make-up by drop length. When Bands is non-empty the
// first band containing the drop wins; Rate is the fallback flat rate.
type PerMetre struct {
	Rate  float64
	Bands []HeightBand
}

// PerDrop prices make-up by the number of fabric drops required.
type PerDrop struct {
	PricePerDrop float64
}

// PerPanel prices make-up by finished panel count (2 for a pair).
type PerPanel struct {
	PricePerPanel float64
}

func (PerMetre) makeUp() {}
func (PerDrop) makeUp()  {}
func (PerPanel) makeUp() {}

// HeadingUpcharge is added on top of the make-up price.
type HeadingUpcharge struct {
	PerMetre   float64 // per metre of rail width
	PerCurtain float64 // per finished panel
}

// HandFinishing is the surcharge applied when manufacturing is by hand.
type HandFinishing struct {
	Fixed   float64
	Percent float64 // percent of the make-up price
}

// Lining describes the selected lining option.
type Lining struct {
	Type             string
	PricePerMetre    float64
	LabourPerCurtain float64
}

// Template holds the making rules a calculation runs against. It is
// immutable reference data; Calculate never mutates it.
type Template struct {
	Heading       string
	FullnessRatio float64

	// width allowances, cm
	ReturnLeft  float64
	ReturnRight float64
	Overlap     float64 // applied only for pairs

	// extra fabric on top of the flat width
	ExtraFixedCM float64
	ExtraPercent float64

	// drop allowances, cm
	HeaderAllowance float64
	BottomHem       float64

	// SeamHemCM is the per-seam hem allowance. It is configuration input
	// with no default; joins fail with ErrSeamHemRequired without it.
	SeamHemCM float64

	WastePercent float64

	FabricWidth  string // narrow | wide
	Railroadable bool

	Manufacturing string // machine | hand
	Hand          HandFinishing

	Upcharge HeadingUpcharge

	MakeUp MakeUp
}

// Input is the per-enquiry measurement set.
type Input struct {
	RailWidthCM float64
	DropCM      float64
	Pooling     string
	Paired      bool

	// Selected options. Lining nil means unlined.
	Lining *Lining

	// Known unit prices from the chosen inventory items; zero falls back
	// to the estimate in CostRates.
	FabricPricePerMetre   float64
	HardwarePricePerMetre float64
}

// CostRates are the configurable flat estimate rates used when no real
// inventory price is selected.
type CostRates struct {
	FabricPerMetre   float64
	LiningPerMetre   float64
	HardwarePerMetre float64
}

// Result is the full calculation breakdown. Only the totals are ever
// persisted (onto a quote line item); the rest is display data.
type Result struct {
	FabricWidthNeededCM float64 `json:"fabric_width_needed_cm"`
	TotalFabricWidthCM  float64 `json:"total_fabric_width_cm"`
	TotalDropCM         float64 `json:"total_drop_cm"`

	Railroaded  bool `json:"railroaded"`
	DropsNeeded int  `json:"drops_needed"`
	SeamsNeeded int  `json:"seams_needed"`
	PanelCount  int  `json:"panel_count"`

	TotalFabricRequired float64 `json:"total_fabric_required"` // metres
	TotalLiningRequired float64 `json:"total_lining_required"` // metres

	MakeUpPrice  float64 `json:"make_up_price"`
	FabricCost   float64 `json:"fabric_cost"`
	LiningCost   float64 `json:"lining_cost"`
	HardwareCost float64 `json:"hardware_cost"`
	TotalPrice   float64 `json:"total_price"`
}

// StandardWidth returns the bolt width for a fabric width type.
func StandardWidth(fabricWidth string) float64 {
	if fabricWidth == FabricWidthWide {
		return StandardWidthWide
	}
	return StandardWidthNarrow
}

// PoolingAllowance returns the drop allowance for a pooling style.
func PoolingAllowance(pooling string) float64 {
	switch pooling {
	case PoolingPuddle:
		return PoolingAllowancePuddle
	case PoolingBreak:
		return PoolingAllowanceBreak
	default:
		return 0
	}
}

// ValidateTemplate checks the rules that must hold before a template is
// accepted: positive fullness, a make-up method, disjoint height bands,
// and a seam hem allowance whenever seamed layouts are possible for it.
func ValidateTemplate(tpl *Template) error {
	if tpl == nil {
		return ErrMissingTemplate
	}
	if tpl.FullnessRatio <= 0 {
		return errors.New("fullness ratio must be positive")
	}
	if tpl.MakeUp == nil {
		return errors.New("make-up pricing method is required")
	}
	if pm, ok := tpl.MakeUp.(PerMetre); ok {
		if err := validateBands(pm.Bands); err != nil {
			return err
		}
	}
	if !tpl.Railroadable && tpl.SeamHemCM <= 0 {
		return ErrSeamHemRequired
	}
	return nil
}

func validateBands(bands []HeightBand) error {
	for i, a := range bands {
		if a.MaxCM < a.MinCM {
			return errors.New("height band max below min")
		}
		for _, b := range bands[i+1:] {
			if a.MinCM <= b.MaxCM && b.MinCM <= a.MaxCM {
				return ErrOverlappingBands
			}
		}
	}
	return nil
}

// Calculate derives fabric and lining yardage plus a price breakdown from
// a template and a set of measurements. It is a pure function: identical
// inputs produce identical results and nothing is carried between calls.
func Calculate(tpl *Template, in Input, rates CostRates) (*Result, error) {
	if tpl == nil {
		return nil, ErrMissingTemplate
	}
	if in.RailWidthCM <= 0 || in.DropCM <= 0 {
		return nil, ErrMissingMeasurements
	}

	panels := 1
	if in.Paired {
		panels = 2
	}

	// flat width
	fabricWidthNeeded := in.RailWidthCM * tpl.FullnessRatio
	totalWidth := fabricWidthNeeded + tpl.ReturnLeft + tpl.ReturnRight
	if in.Paired {
		totalWidth += tpl.Overlap
	}
	totalWidth += tpl.ExtraFixedCM
	totalWidth += fabricWidthNeeded * tpl.ExtraPercent / 100

	// cut drop
	totalDrop := in.DropCM + tpl.HeaderAllowance + tpl.BottomHem + PoolingAllowance(in.Pooling)

	standard := StandardWidth(tpl.FabricWidth)

	var (
		fabricRequired float64
		railroaded     bool
		dropsNeeded    int
		seamsNeeded    int
	)
	if tpl.Railroadable && totalDrop <= standard {
		// run the fabric sideways: one continuous length, no vertical seams
		railroaded = true
		dropsNeeded = int(math.Ceil(totalWidth / standard))
		fabricRequired = float64(dropsNeeded) * totalDrop / 100
	} else {
		// seams join full fullness widths; the return/overlap allowances
		// wrap the ends and do not add joins
		seamsNeeded = int(math.Ceil(fabricWidthNeeded/standard)) - 1
		if seamsNeeded < 0 {
			seamsNeeded = 0
		}
		if seamsNeeded > 0 && tpl.SeamHemCM <= 0 {
			return nil, ErrSeamHemRequired
		}
		fabricRequired = (totalDrop + float64(seamsNeeded)*tpl.SeamHemCM*2) / 100
	}

	// waste applied exactly once, after the seam/railroad step
	fabricRequired *= 1 + tpl.WastePercent/100

	var liningRequired float64
	if in.Lining != nil {
		liningRequired = fabricRequired
	}

	makeUp, err := makeUpPrice(tpl.MakeUp, in, fabricWidthNeeded, standard, panels)
	if err != nil {
		return nil, err
	}

	// heading upcharge: per rail metre and per finished panel
	makeUp += tpl.Upcharge.PerMetre * in.RailWidthCM / 100
	makeUp += tpl.Upcharge.PerCurtain * float64(panels)

	if tpl.Manufacturing == ManufacturingHand {
		makeUp += tpl.Hand.Fixed
		makeUp += makeUp * tpl.Hand.Percent / 100
	}

	fabricRate := in.FabricPricePerMetre
	if fabricRate == 0 {
		fabricRate = rates.FabricPerMetre
	}
	fabricCost := fabricRequired * fabricRate

	var liningCost float64
	if in.Lining != nil {
		liningRate := in.Lining.PricePerMetre
		if liningRate == 0 {
			liningRate = rates.LiningPerMetre
		}
		liningCost = liningRequired*liningRate + in.Lining.LabourPerCurtain*float64(panels)
	}

	hardwareRate := in.HardwarePricePerMetre
	if hardwareRate == 0 {
		hardwareRate = rates.HardwarePerMetre
	}
	hardwareCost := in.RailWidthCM / 100 * hardwareRate

	res := &Result{
		FabricWidthNeededCM: round2(fabricWidthNeeded),
		TotalFabricWidthCM:  round2(totalWidth),
		TotalDropCM:         round2(totalDrop),
		Railroaded:          railroaded,
		DropsNeeded:         dropsNeeded,
		SeamsNeeded:         seamsNeeded,
		PanelCount:          panels,
		TotalFabricRequired: round2(fabricRequired),
		TotalLiningRequired: round2(liningRequired),
		MakeUpPrice:         round2(makeUp),
		FabricCost:          round2(fabricCost),
		LiningCost:          round2(liningCost),
		HardwareCost:        round2(hardwareCost),
	}
	res.TotalPrice = round2(res.MakeUpPrice + res.FabricCost + res.LiningCost + res.HardwareCost)
	return res, nil
}

func makeUpPrice(m MakeUp, in Input, fabricWidthNeeded, standard float64, panels int) (float64, error) {
	switch p := m.(type) {
	case PerMetre:
		rate := p.Rate
		for _, band := range p.Bands {
			if in.DropCM >= band.MinCM && in.DropCM <= band.MaxCM {
				rate = band.Rate
				break
			}
		}
		return in.DropCM / 100 * rate, nil
	case PerDrop:
		drops := int(math.Ceil(fabricWidthNeeded / standard))
		return float64(drops) * p.PricePerDrop, nil
	case PerPanel:
		return float64(panels) * p.PricePerPanel, nil
	default:
		return 0, errors.New("make-up pricing method is required")
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
