package entity

import "time"

// Supplier is a fabric house, hardware vendor or workroom partner.
type Supplier struct {
	ID        string `json:"id" gorm:"primaryKey;size:32"`
	Code      string `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name      string `json:"name" gorm:"size:200;not null"`
	ShortName string `json:"short_name" gorm:"size:50"`
	Category  string `json:"category" gorm:"size:50;not null"` // fabric_house/hardware/lining/trimmings/workroom/other
	Status    string `json:"status" gorm:"size:20;default:active"`

	Country string `json:"country" gorm:"size:50"`
	City    string `json:"city" gorm:"size:50"`
	Address string `json:"address" gorm:"size:500"`
	Website string `json:"website" gorm:"size:200"`

	// ordering terms
	LeadTimeDays  *int    `json:"lead_time_days"`
	MinOrderValue *float64 `json:"min_order_value" gorm:"type:decimal(12,2)"`
	PaymentTerms  string  `json:"payment_terms" gorm:"size:100"`
	Currency      string  `json:"currency" gorm:"size:10;default:GBP"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Notes     string    `json:"notes" gorm:"type:text"`

	Contacts []SupplierContact `json:"contacts,omitempty" gorm:"foreignKey:SupplierID"`
}

func (Supplier) TableName() string {
	return "catalog_suppliers"
}

// Supplier categories
const (
	SupplierCategoryFabricHouse = "fabric_house"
	SupplierCategoryHardware    = "hardware"
	SupplierCategoryLining      = "lining"
	SupplierCategoryTrimmings   = "trimmings"
	SupplierCategoryWorkroom    = "workroom"
	SupplierCategoryOther       = "other"
)

// Supplier statuses
const (
	SupplierStatusActive    = "active"
	SupplierStatusSuspended = "suspended"
	SupplierStatusArchived  = "archived"
)

// SupplierContact is a named contact at a supplier.
type SupplierContact struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	SupplierID string    `json:"supplier_id" gorm:"size:32;not null;index"`
	Name       string    `json:"name" gorm:"size:100;not null"`
	Title      string    `json:"title" gorm:"size:100"`
	Phone      string    `json:"phone" gorm:"size:50"`
	Email      string    `json:"email" gorm:"size:200"`
	IsPrimary  bool      `json:"is_primary" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`
}

func (SupplierContact) TableName() string {
	return "catalog_supplier_contacts"
}
