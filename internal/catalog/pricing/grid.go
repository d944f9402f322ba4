package pricing

import (
	"fmt"
	"strings"
)

// Grid is the resolver's view of a pricing grid record.
type Grid struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	GridCode    string `json:"grid_code"`
	SupplierID  string `json:"supplier_id"`
	ProductType string `json:"product_type"`
	PriceGroup  string `json:"price_group"`
}

// GridQuery selects a grid for a material configuration. SupplierID is
// optional; the other two are required for a match.
type GridQuery struct {
	ProductType string `json:"product_type"`
	PriceGroup  string `json:"price_group"`
	SupplierID  string `json:"supplier_id"`
}

// Resolution is the outcome of a grid lookup. A failed lookup is a normal
// result, not an error: Grid is nil and the caller decides what to do.
// When more than one grid satisfies the query the resolver refuses to
// pick one and reports the candidates instead.
type Resolution struct {
	Grid       *Grid  `json:"grid,omitempty"`
	Ambiguous  bool   `json:"ambiguous"`
	Candidates []Grid `json:"candidates,omitempty"`
}

// Grid issue kinds, ordered from broadest to narrowest cause.
const (
	GridIssueNoGrids       = "no_grids"
	GridIssueProductType   = "no_product_type_match"
	GridIssuePriceGroup    = "no_price_group_match"
	GridIssueSupplier      = "no_supplier_match"
	GridIssueNoCombination = "no_combination_match"
	GridIssueAmbiguous     = "ambiguous_match"
)

// GridIssue is one structured diagnosis entry.
type GridIssue struct {
	Kind       string `json:"kind"`
	Detail     string `json:"detail"`
	Suggestion string `json:"suggestion"`
}

func gridMatches(g Grid, q GridQuery) bool {
	if !strings.EqualFold(g.PriceGroup, q.PriceGroup) {
		return false
	}
	if g.ProductType != q.ProductType {
		return false
	}
	if q.SupplierID != "" && g.SupplierID != q.SupplierID {
		return false
	}
	return true
}

// ResolveGrid finds the grid matching the query: exact product type,
// case-insensitive price group, exact supplier when one is given.
func ResolveGrid(grids []Grid, q GridQuery) Resolution {
	var matches []Grid
	for _, g := range grids {
		if gridMatches(g, q) {
			matches = append(matches, g)
		}
	}
	switch len(matches) {
	case 0:
		return Resolution{}
	case 1:
		return Resolution{Grid: &matches[0]}
	default:
		return Resolution{Ambiguous: true, Candidates: matches}
	}
}

// DiagnoseGrid explains why a lookup found no single grid. It walks a
// fixed rule list from the broadest cause (no grids at all) to the
// narrowest (no grid for the full combination) and returns every rule
// that fired. An empty slice means the lookup would have succeeded.
func DiagnoseGrid(grids []Grid, q GridQuery) []GridIssue {
	var issues []GridIssue

	if len(grids) == 0 {
		return []GridIssue{{
			Kind:       GridIssueNoGrids,
			Detail:     "no pricing grids are configured",
			Suggestion: "create a pricing grid under settings before assigning price groups",
		}}
	}

	byType := 0
	byGroup := 0
	bySupplier := 0
	for _, g := range grids {
		if g.ProductType == q.ProductType {
			byType++
		}
		if strings.EqualFold(g.PriceGroup, q.PriceGroup) {
			byGroup++
		}
		if q.SupplierID != "" && g.SupplierID == q.SupplierID {
			bySupplier++
		}
	}

	if byType == 0 {
		issues = append(issues, GridIssue{
			Kind:       GridIssueProductType,
			Detail:     fmt.Sprintf("no grid covers product type %q", q.ProductType),
			Suggestion: fmt.Sprintf("add a grid with product type %q or change the material's product type", q.ProductType),
		})
	}
	if byGroup == 0 {
		issues = append(issues, GridIssue{
			Kind:       GridIssuePriceGroup,
			Detail:     fmt.Sprintf("no grid carries price group %q", q.PriceGroup),
			Suggestion: fmt.Sprintf("add price group %q to a grid or correct the material's price group", q.PriceGroup),
		})
	}
	if q.SupplierID != "" && bySupplier == 0 {
		issues = append(issues, GridIssue{
			Kind:       GridIssueSupplier,
			Detail:     "no grid is linked to the material's supplier",
			Suggestion: "link a grid to this supplier or clear the supplier filter",
		})
	}

	res := ResolveGrid(grids, q)
	if res.Ambiguous {
		issues = append(issues, GridIssue{
			Kind:       GridIssueAmbiguous,
			Detail:     fmt.Sprintf("%d grids match the same product type, price group and supplier", len(res.Candidates)),
			Suggestion: "deactivate or re-scope the duplicate grids; resolution refuses to pick one silently",
		})
	} else if res.Grid == nil && len(issues) == 0 {
		issues = append(issues, GridIssue{
			Kind:       GridIssueNoCombination,
			Detail:     "grids exist for each attribute separately but none matches the full combination",
			Suggestion: "extend an existing grid to cover this product type, price group and supplier together",
		})
	}

	return issues
}
