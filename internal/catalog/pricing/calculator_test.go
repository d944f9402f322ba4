package pricing

import (
	"math"
	"reflect"
	"testing"
)

func flatTemplate() *Template {
	return &Template{
		Heading:       "pencil_pleat",
		FullnessRatio: 1,
		FabricWidth:   FabricWidthNarrow,
		SeamHemCM:     1.5,
		Manufacturing: ManufacturingMachine,
		MakeUp:        PerMetre{Rate: 10},
	}
}

func TestFabricWidthEqualsRailWidthWithoutAllowances(t *testing.T) {
	tpl := flatTemplate()
	res, err := Calculate(tpl, Input{RailWidthCM: 120, DropCM: 100, Pooling: PoolingNone}, CostRates{})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if res.FabricWidthNeededCM != 120 {
		t.Errorf("fabric width = %.2f, want 120 (fullness 1, zero allowances)", res.FabricWidthNeededCM)
	}
	if res.TotalFabricWidthCM != 120 {
		t.Errorf("total width = %.2f, want 120", res.TotalFabricWidthCM)
	}
}

func TestMissingMeasurements(t *testing.T) {
	tpl := flatTemplate()
	if _, err := Calculate(tpl, Input{RailWidthCM: 0, DropCM: 100}, CostRates{}); err != ErrMissingMeasurements {
		t.Errorf("zero rail width: got %v, want ErrMissingMeasurements", err)
	}
	if _, err := Calculate(tpl, Input{RailWidthCM: 100, DropCM: 0}, CostRates{}); err != ErrMissingMeasurements {
		t.Errorf("zero drop: got %v, want ErrMissingMeasurements", err)
	}
	if _, err := Calculate(nil, Input{RailWidthCM: 100, DropCM: 100}, CostRates{}); err != ErrMissingTemplate {
		t.Errorf("nil template: got %v, want ErrMissingTemplate", err)
	}
}

func TestPoolingAllowances(t *testing.T) {
	cases := []struct {
		pooling string
		want    float64
	}{
		{PoolingPuddle, 15},
		{PoolingBreak, 2},
		{PoolingNone, 0},
	}
	tpl := flatTemplate()
	for _, tc := range cases {
		res, err := Calculate(tpl, Input{RailWidthCM: 100, DropCM: 200, Pooling: tc.pooling}, CostRates{})
		if err != nil {
			t.Fatalf("%s: Calculate failed: %v", tc.pooling, err)
		}
		if got := res.TotalDropCM - 200; got != tc.want {
			t.Errorf("%s: drop allowance = %.2f, want %.2f", tc.pooling, got, tc.want)
		}
	}
}

// TestSeamedPairScenario pins the worked example: fullness 2, 7.5cm
// returns each side, 10cm overlap, 8cm header, 15cm hem, 5% waste,
// machine per-metre rate 25, on a 200x150 pair with break pooling.
func TestSeamedPairScenario(t *testing.T) {
	tpl := &Template{
		Heading:         "pinch_pleat",
		FullnessRatio:   2,
		ReturnLeft:      7.5,
		ReturnRight:     7.5,
		Overlap:         10,
		HeaderAllowance: 8,
		BottomHem:       15,
		SeamHemCM:       10,
		WastePercent:    5,
		FabricWidth:     FabricWidthNarrow,
		Manufacturing:   ManufacturingMachine,
		MakeUp:          PerMetre{Rate: 25},
	}
	in := Input{RailWidthCM: 200, DropCM: 150, Pooling: PoolingBreak, Paired: true}

	res, err := Calculate(tpl, in, CostRates{})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	if res.FabricWidthNeededCM != 400 {
		t.Errorf("fabric width = %.2f, want 400", res.FabricWidthNeededCM)
	}
	if res.TotalFabricWidthCM != 425 {
		t.Errorf("total width = %.2f, want 425 (400 + 15 returns + 10 overlap)", res.TotalFabricWidthCM)
	}
	if res.TotalDropCM != 175 {
		t.Errorf("total drop = %.2f, want 175 (150 + 8 + 15 + 2)", res.TotalDropCM)
	}
	if res.SeamsNeeded != 2 {
		t.Errorf("seams = %d, want 2", res.SeamsNeeded)
	}
	if res.Railroaded {
		t.Error("narrow non-railroad template must not railroad")
	}
	// (175 + 2 seams x 10cm x 2) / 100 = 2.15m, then x1.05 waste = 2.2575 → 2.26
	if res.TotalFabricRequired != 2.26 {
		t.Errorf("fabric required = %.4f, want 2.26", res.TotalFabricRequired)
	}
	if res.MakeUpPrice != 37.5 {
		t.Errorf("make-up = %.2f, want 37.50 (1.5m x 25)", res.MakeUpPrice)
	}
}

func TestWasteAppliedExactlyOnce(t *testing.T) {
	tpl := flatTemplate()
	tpl.WastePercent = 10

	base := *tpl
	base.WastePercent = 0

	in := Input{RailWidthCM: 100, DropCM: 200, Pooling: PoolingNone}
	withWaste, err := Calculate(tpl, in, CostRates{})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	noWaste, err := Calculate(&base, in, CostRates{})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	want := math.Round(noWaste.TotalFabricRequired*1.10*100) / 100
	if withWaste.TotalFabricRequired != want {
		t.Errorf("fabric with waste = %.4f, want %.4f (exactly one 10%% factor)", withWaste.TotalFabricRequired, want)
	}
}

func TestRailroadedLayout(t *testing.T) {
	tpl := flatTemplate()
	tpl.FullnessRatio = 2.5
	tpl.Railroadable = true
	tpl.FabricWidth = FabricWidthWide

	// 100cm drop fits the 280cm bolt sideways
	res, err := Calculate(tpl, Input{RailWidthCM: 200, DropCM: 100, Pooling: PoolingNone}, CostRates{})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if !res.Railroaded {
		t.Fatal("expected railroaded layout")
	}
	// width 500 / 280 → 2 drops x 1.0m
	if res.DropsNeeded != 2 {
		t.Errorf("drops = %d, want 2", res.DropsNeeded)
	}
	if res.TotalFabricRequired != 2.00 {
		t.Errorf("fabric required = %.2f, want 2.00", res.TotalFabricRequired)
	}
	if res.SeamsNeeded != 0 {
		t.Errorf("railroaded layout must not seam, got %d seams", res.SeamsNeeded)
	}

	// a drop longer than the bolt falls back to the seamed layout
	res2, err := Calculate(tpl, Input{RailWidthCM: 200, DropCM: 300, Pooling: PoolingNone}, CostRates{})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if res2.Railroaded {
		t.Error("drop beyond bolt width must not railroad")
	}
}

func TestSeamHemRequiredWhenSeaming(t *testing.T) {
	tpl := flatTemplate()
	tpl.FullnessRatio = 3
	tpl.SeamHemCM = 0

	_, err := Calculate(tpl, Input{RailWidthCM: 200, DropCM: 150, Pooling: PoolingNone}, CostRates{})
	if err != ErrSeamHemRequired {
		t.Errorf("got %v, want ErrSeamHemRequired", err)
	}
}

func TestPerPanelPairIgnoresMeasurements(t *testing.T) {
	tpl := flatTemplate()
	tpl.MakeUp = PerPanel{PricePerPanel: 180}

	a, err := Calculate(tpl, Input{RailWidthCM: 120, DropCM: 90, Pooling: PoolingNone, Paired: true}, CostRates{})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	b, err := Calculate(tpl, Input{RailWidthCM: 480, DropCM: 310, Pooling: PoolingPuddle, Paired: true}, CostRates{})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if a.MakeUpPrice != 360 || b.MakeUpPrice != 360 {
		t.Errorf("pair make-up = %.2f / %.2f, want 360 regardless of measurements", a.MakeUpPrice, b.MakeUpPrice)
	}
}

func TestPerDropPricing(t *testing.T) {
	tpl := flatTemplate()
	tpl.FullnessRatio = 2
	tpl.MakeUp = PerDrop{PricePerDrop: 40}

	// 200 x 2 = 400cm fullness width → 3 drops of 140cm fabric
	res, err := Calculate(tpl, Input{RailWidthCM: 200, DropCM: 150, Pooling: PoolingNone}, CostRates{})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if res.MakeUpPrice != 120 {
		t.Errorf("make-up = %.2f, want 120 (3 drops x 40)", res.MakeUpPrice)
	}
}

func TestHeightBandedRate(t *testing.T) {
	tpl := flatTemplate()
	tpl.MakeUp = PerMetre{
		Rate: 20,
		Bands: []HeightBand{
			{MinCM: 0, MaxCM: 200, Rate: 25},
			{MinCM: 201, MaxCM: 300, Rate: 32},
		},
	}

	short, err := Calculate(tpl, Input{RailWidthCM: 100, DropCM: 150, Pooling: PoolingNone}, CostRates{})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if short.MakeUpPrice != 37.5 {
		t.Errorf("banded make-up = %.2f, want 37.50 (1.5m x 25)", short.MakeUpPrice)
	}

	tall, err := Calculate(tpl, Input{RailWidthCM: 100, DropCM: 250, Pooling: PoolingNone}, CostRates{})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if tall.MakeUpPrice != 80 {
		t.Errorf("banded make-up = %.2f, want 80 (2.5m x 32)", tall.MakeUpPrice)
	}

	// outside every band → flat rate
	above, err := Calculate(tpl, Input{RailWidthCM: 100, DropCM: 400, Pooling: PoolingNone}, CostRates{})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if above.MakeUpPrice != 80 {
		t.Errorf("fallback make-up = %.2f, want 80 (4m x 20)", above.MakeUpPrice)
	}
}

func TestHandFinishingUpcharge(t *testing.T) {
	tpl := flatTemplate()
	tpl.MakeUp = PerMetre{Rate: 20}
	tpl.Manufacturing = ManufacturingHand
	tpl.Hand = HandFinishing{Fixed: 10, Percent: 50}

	res, err := Calculate(tpl, Input{RailWidthCM: 100, DropCM: 100, Pooling: PoolingNone}, CostRates{})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	// (20 + 10 fixed) x 1.5 = 45
	if res.MakeUpPrice != 45 {
		t.Errorf("hand make-up = %.2f, want 45", res.MakeUpPrice)
	}
}

func TestLiningFollowsFabricRequirement(t *testing.T) {
	tpl := flatTemplate()
	rates := CostRates{FabricPerMetre: 18, LiningPerMetre: 8, HardwarePerMetre: 12}

	unlined, err := Calculate(tpl, Input{RailWidthCM: 100, DropCM: 200, Pooling: PoolingNone}, rates)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if unlined.TotalLiningRequired != 0 || unlined.LiningCost != 0 {
		t.Errorf("unlined: lining %.2fm / cost %.2f, want zero", unlined.TotalLiningRequired, unlined.LiningCost)
	}

	lined, err := Calculate(tpl, Input{
		RailWidthCM: 100, DropCM: 200, Pooling: PoolingNone,
		Lining: &Lining{Type: "blockout", PricePerMetre: 9.5, LabourPerCurtain: 15},
	}, rates)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if lined.TotalLiningRequired != lined.TotalFabricRequired {
		t.Errorf("lining %.2fm, want fabric requirement %.2fm", lined.TotalLiningRequired, lined.TotalFabricRequired)
	}
	want := math.Round((lined.TotalLiningRequired*9.5+15)*100) / 100
	if lined.LiningCost != want {
		t.Errorf("lining cost = %.2f, want %.2f", lined.LiningCost, want)
	}
}

func TestCalculateIsDeterministic(t *testing.T) {
	tpl := &Template{
		FullnessRatio:   2.3,
		ReturnLeft:      7.5,
		ReturnRight:     7.5,
		Overlap:         10,
		HeaderAllowance: 8,
		BottomHem:       15,
		SeamHemCM:       1.5,
		WastePercent:    7.5,
		FabricWidth:     FabricWidthNarrow,
		Manufacturing:   ManufacturingHand,
		Hand:            HandFinishing{Fixed: 12, Percent: 20},
		Upcharge:        HeadingUpcharge{PerMetre: 3, PerCurtain: 5},
		MakeUp:          PerMetre{Rate: 27.4, Bands: []HeightBand{{MinCM: 100, MaxCM: 250, Rate: 31.1}}},
	}
	in := Input{
		RailWidthCM: 237, DropCM: 213.5, Pooling: PoolingPuddle, Paired: true,
		Lining:              &Lining{Type: "thermal", PricePerMetre: 11.25, LabourPerCurtain: 18},
		FabricPricePerMetre: 42.9,
	}
	rates := CostRates{FabricPerMetre: 18, LiningPerMetre: 8, HardwarePerMetre: 12}

	first, err := Calculate(tpl, in, rates)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	second, err := Calculate(tpl, in, rates)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two identical calls diverged:\n%+v\n%+v", first, second)
	}
}

func TestValidateTemplate(t *testing.T) {
	tpl := flatTemplate()
	if err := ValidateTemplate(tpl); err != nil {
		t.Errorf("valid template rejected: %v", err)
	}

	bad := *tpl
	bad.FullnessRatio = 0
	if err := ValidateTemplate(&bad); err == nil {
		t.Error("zero fullness accepted")
	}

	noHem := *tpl
	noHem.SeamHemCM = 0
	if err := ValidateTemplate(&noHem); err != ErrSeamHemRequired {
		t.Errorf("missing seam hem: got %v, want ErrSeamHemRequired", err)
	}

	overlapping := *tpl
	overlapping.MakeUp = PerMetre{Rate: 20, Bands: []HeightBand{
		{MinCM: 0, MaxCM: 200, Rate: 25},
		{MinCM: 150, MaxCM: 300, Rate: 30},
	}}
	if err := ValidateTemplate(&overlapping); err != ErrOverlappingBands {
		t.Errorf("overlapping bands: got %v, want ErrOverlappingBands", err)
	}
}
