package entity

import "time"

// Material is an inventory item: a fabric, lining, hardware piece or
// track. PriceGroup and SupplierID are the join keys against pricing
// grids.
type Material struct {
	ID       string `json:"id" gorm:"primaryKey;size:32"`
	SKU      string `json:"sku" gorm:"size:64;uniqueIndex;not null"`
	Name     string `json:"name" gorm:"size:200;not null"`
	Category string `json:"category" gorm:"size:50;not null"` // fabric/lining/hardware/track/trimming
	Status   string `json:"status" gorm:"size:20;default:active"`

	SupplierID  *string `json:"supplier_id" gorm:"size:32;index"`
	ProductType string  `json:"product_type" gorm:"size:50"`
	PriceGroup  string  `json:"price_group" gorm:"size:50"`

	// fabric attributes
	FabricWidthCM *float64 `json:"fabric_width_cm" gorm:"type:decimal(7,2)"`
	Composition   string   `json:"composition" gorm:"size:200"`
	Colour        string   `json:"colour" gorm:"size:100"`
	PatternRepeat *float64 `json:"pattern_repeat" gorm:"type:decimal(7,2)"`

	Unit          string   `json:"unit" gorm:"size:16;default:m"`
	CostPerUnit   *float64 `json:"cost_per_unit" gorm:"type:decimal(12,4)"`
	PricePerUnit  *float64 `json:"price_per_unit" gorm:"type:decimal(12,4)"`
	StockQuantity float64  `json:"stock_quantity" gorm:"type:decimal(12,2);default:0"`
	ReorderPoint  float64  `json:"reorder_point" gorm:"type:decimal(12,2);default:0"`

	ImageURL string `json:"image_url" gorm:"size:512"`
	Notes    string `json:"notes" gorm:"type:text"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

func (Material) TableName() string {
	return "catalog_materials"
}

// LowStock reports whether the item has fallen to its reorder point.
func (m *Material) LowStock() bool {
	return m.ReorderPoint > 0 && m.StockQuantity <= m.ReorderPoint
}

// Material categories
const (
	MaterialCategoryFabric   = "fabric"
	MaterialCategoryLining   = "lining"
	MaterialCategoryHardware = "hardware"
	MaterialCategoryTrack    = "track"
	MaterialCategoryTrimming = "trimming"
)

// Material statuses
const (
	MaterialStatusActive       = "active"
	MaterialStatusDiscontinued = "discontinued"
)

// StockMovement records a manual stock adjustment or a deduction made
// when a quote is accepted.
type StockMovement struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	MaterialID string    `json:"material_id" gorm:"size:32;not null;index"`
	Quantity   float64   `json:"quantity" gorm:"type:decimal(12,2);not null"` // negative = out
	Reason     string    `json:"reason" gorm:"size:50;not null"`              // adjustment/quote_accepted/received/write_off
	Reference  string    `json:"reference" gorm:"size:64"`
	CreatedBy  string    `json:"created_by" gorm:"size:32"`
	CreatedAt  time.Time `json:"created_at"`
}

func (StockMovement) TableName() string {
	return "catalog_stock_movements"
}
