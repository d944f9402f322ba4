package pricing

import "testing"

func sampleGrids() []Grid {
	return []Grid{
		{ID: "g1", Name: "Roman A", GridCode: "RM-A", SupplierID: "sup-1", ProductType: "roman_blind", PriceGroup: "A"},
		{ID: "g2", Name: "Roman B", GridCode: "RM-B", SupplierID: "sup-1", ProductType: "roman_blind", PriceGroup: "B"},
		{ID: "g3", Name: "Roller A", GridCode: "RL-A", SupplierID: "sup-2", ProductType: "roller_blind", PriceGroup: "A"},
	}
}

func TestResolveGridSingleMatch(t *testing.T) {
	res := ResolveGrid(sampleGrids(), GridQuery{ProductType: "roman_blind", PriceGroup: "a", SupplierID: "sup-1"})
	if res.Grid == nil {
		t.Fatal("expected a match")
	}
	if res.Grid.ID != "g1" {
		t.Errorf("matched %s, want g1 (price group compared case-insensitively)", res.Grid.ID)
	}
	if res.Ambiguous {
		t.Error("single match flagged ambiguous")
	}
}

func TestResolveGridWithoutSupplier(t *testing.T) {
	res := ResolveGrid(sampleGrids(), GridQuery{ProductType: "roller_blind", PriceGroup: "A"})
	if res.Grid == nil || res.Grid.ID != "g3" {
		t.Fatalf("got %+v, want g3 (supplier filter optional)", res.Grid)
	}
}

func TestResolveGridNoMatch(t *testing.T) {
	res := ResolveGrid(sampleGrids(), GridQuery{ProductType: "curtain", PriceGroup: "A"})
	if res.Grid != nil || res.Ambiguous {
		t.Fatalf("expected empty resolution, got %+v", res)
	}

	issues := DiagnoseGrid(sampleGrids(), GridQuery{ProductType: "curtain", PriceGroup: "A"})
	if len(issues) == 0 {
		t.Fatal("no-match lookup must yield at least one diagnostic issue")
	}
	if issues[0].Kind != GridIssueProductType {
		t.Errorf("first issue kind = %s, want %s", issues[0].Kind, GridIssueProductType)
	}
	if issues[0].Suggestion == "" {
		t.Error("issue carries no suggestion")
	}
}

func TestResolveGridAmbiguity(t *testing.T) {
	grids := append(sampleGrids(), Grid{
		ID: "g4", Name: "Roman A dup", GridCode: "RM-A2",
		SupplierID: "sup-1", ProductType: "roman_blind", PriceGroup: "a",
	})

	res := ResolveGrid(grids, GridQuery{ProductType: "roman_blind", PriceGroup: "A", SupplierID: "sup-1"})
	if res.Grid != nil {
		t.Fatal("ambiguous lookup must not pick a grid silently")
	}
	if !res.Ambiguous || len(res.Candidates) != 2 {
		t.Fatalf("got ambiguous=%v candidates=%d, want true/2", res.Ambiguous, len(res.Candidates))
	}

	issues := DiagnoseGrid(grids, GridQuery{ProductType: "roman_blind", PriceGroup: "A", SupplierID: "sup-1"})
	found := false
	for _, is := range issues {
		if is.Kind == GridIssueAmbiguous {
			found = true
		}
	}
	if !found {
		t.Errorf("diagnosis %v misses the ambiguity issue", issues)
	}
}

func TestDiagnoseGridEmptySet(t *testing.T) {
	issues := DiagnoseGrid(nil, GridQuery{ProductType: "roman_blind", PriceGroup: "A"})
	if len(issues) != 1 || issues[0].Kind != GridIssueNoGrids {
		t.Fatalf("got %v, want single %s issue", issues, GridIssueNoGrids)
	}
}

func TestDiagnoseGridCombinationGap(t *testing.T) {
	// product type and price group each exist somewhere, but never together
	issues := DiagnoseGrid(sampleGrids(), GridQuery{ProductType: "roller_blind", PriceGroup: "B"})
	if len(issues) != 1 {
		t.Fatalf("got %d issues %v, want exactly the combination issue", len(issues), issues)
	}
	if issues[0].Kind != GridIssueNoCombination {
		t.Errorf("kind = %s, want %s", issues[0].Kind, GridIssueNoCombination)
	}
}
