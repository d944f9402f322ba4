package entity

import (
	"time"

	"github.com/drapehq/drapehq/internal/catalog/pricing"
)

// CostSettings holds the account-level flat estimate rates used when a
// calculation has no real inventory price to draw on. The rates are
// configuration, not business rules; a single row with a fixed ID.
type CostSettings struct {
	ID string `json:"id" gorm:"primaryKey;size:32"`

	FabricPerMetre   float64 `json:"fabric_per_metre" gorm:"type:decimal(12,2);default:0"`
	LiningPerMetre   float64 `json:"lining_per_metre" gorm:"type:decimal(12,2);default:0"`
	HardwarePerMetre float64 `json:"hardware_per_metre" gorm:"type:decimal(12,2);default:0"`

	TaxPercent float64 `json:"tax_percent" gorm:"type:decimal(5,2);default:0"`
	Currency   string  `json:"currency" gorm:"size:10;default:GBP"`

	UpdatedBy string    `json:"updated_by" gorm:"size:32"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CostSettings) TableName() string {
	return "catalog_cost_settings"
}

// CostSettingsID is the fixed primary key of the singleton row.
const CostSettingsID = "default"

// DefaultCostSettings returns the row seeded for a fresh account.
func DefaultCostSettings() CostSettings {
	return CostSettings{
		ID:               CostSettingsID,
		FabricPerMetre:   35,
		LiningPerMetre:   12,
		HardwarePerMetre: 25,
		TaxPercent:       20,
		Currency:         "GBP",
	}
}

// Rates converts the record into the calculator's rate set.
func (s *CostSettings) Rates() pricing.CostRates {
	return pricing.CostRates{
		FabricPerMetre:   s.FabricPerMetre,
		LiningPerMetre:   s.LiningPerMetre,
		HardwarePerMetre: s.HardwarePerMetre,
	}
}
