package entity

import (
	"time"

	"github.com/drapehq/drapehq/internal/catalog/pricing"
)

// PricingGrid maps a (supplier, product type, price group) combination
// to a supplier price table. Resolution expects at most one active grid
// per combination.
type PricingGrid struct {
	ID          string `json:"id" gorm:"primaryKey;size:32"`
	Name        string `json:"name" gorm:"size:200;not null"`
	GridCode    string `json:"grid_code" gorm:"size:64;uniqueIndex;not null"`
	SupplierID  string `json:"supplier_id" gorm:"size:32;index"`
	ProductType string `json:"product_type" gorm:"size:50;not null"`
	PriceGroup  string `json:"price_group" gorm:"size:50;not null"`
	Active      bool   `json:"active" gorm:"default:true"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

func (PricingGrid) TableName() string {
	return "catalog_pricing_grids"
}

// ToPricing converts the record into the resolver's flat form.
func (g *PricingGrid) ToPricing() pricing.Grid {
	return pricing.Grid{
		ID:          g.ID,
		Name:        g.Name,
		GridCode:    g.GridCode,
		SupplierID:  g.SupplierID,
		ProductType: g.ProductType,
		PriceGroup:  g.PriceGroup,
	}
}
