package entity

import "time"

// Quote is a priced proposal for a project. Line item totals come from
// the curtain calculator; the quote carries only the persisted numbers.
type Quote struct {
	ID          string `json:"id" gorm:"primaryKey;size:32"`
	QuoteNumber string `json:"quote_number" gorm:"size:32;uniqueIndex;not null"`
	ClientID    string `json:"client_id" gorm:"size:32;not null;index"`
	ProjectID   string `json:"project_id" gorm:"size:32;index"`
	Status      string `json:"status" gorm:"size:20;default:draft"`

	Subtotal   float64 `json:"subtotal" gorm:"type:decimal(12,2);default:0"`
	TaxPercent float64 `json:"tax_percent" gorm:"type:decimal(5,2);default:0"`
	TaxAmount  float64 `json:"tax_amount" gorm:"type:decimal(12,2);default:0"`
	Total      float64 `json:"total" gorm:"type:decimal(12,2);default:0"`
	Currency   string  `json:"currency" gorm:"size:10;default:GBP"`

	ValidUntil *time.Time `json:"valid_until"`
	SentAt     *time.Time `json:"sent_at"`
	DecidedAt  *time.Time `json:"decided_at"`
	Notes      string     `json:"notes" gorm:"type:text"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Client    *Client         `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Project   *Project        `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	LineItems []QuoteLineItem `json:"line_items,omitempty" gorm:"foreignKey:QuoteID"`
}

func (Quote) TableName() string {
	return "crm_quotes"
}

// Quote statuses
const (
	QuoteStatusDraft    = "draft"
	QuoteStatusSent     = "sent"
	QuoteStatusAccepted = "accepted"
	QuoteStatusDeclined = "declined"
	QuoteStatusExpired  = "expired"
)

// quoteTransitions lists the allowed status moves. A declined quote may
// be re-sent after revision; accepted is terminal.
var quoteTransitions = map[string][]string{
	QuoteStatusDraft:    {QuoteStatusSent},
	QuoteStatusSent:     {QuoteStatusAccepted, QuoteStatusDeclined, QuoteStatusExpired},
	QuoteStatusDeclined: {QuoteStatusSent},
	QuoteStatusExpired:  {QuoteStatusSent},
}

// CanTransition reports whether the quote may move to the target status.
func (q *Quote) CanTransition(target string) bool {
	for _, next := range quoteTransitions[q.Status] {
		if next == target {
			return true
		}
	}
	return false
}

// Editable reports whether line items may still change.
func (q *Quote) Editable() bool {
	return q.Status == QuoteStatusDraft
}

// QuoteLineItem is one priced window treatment on a quote. The full
// calculation breakdown is kept as display data; only the totals feed
// the quote arithmetic.
type QuoteLineItem struct {
	ID      string `json:"id" gorm:"primaryKey;size:32"`
	QuoteID string `json:"quote_id" gorm:"size:32;not null;index"`

	Room        string `json:"room" gorm:"size:100"`
	Description string `json:"description" gorm:"size:500"`

	TemplateID         string `json:"template_id" gorm:"size:32"`
	FabricMaterialID   string `json:"fabric_material_id" gorm:"size:32"`
	HardwareMaterialID string `json:"hardware_material_id" gorm:"size:32"`
	LiningType         string `json:"lining_type" gorm:"size:50"`

	RailWidthCM float64 `json:"rail_width_cm" gorm:"type:decimal(7,2)"`
	DropCM      float64 `json:"drop_cm" gorm:"type:decimal(7,2)"`
	Pooling     string  `json:"pooling" gorm:"size:20"`
	Paired      bool    `json:"paired" gorm:"default:false"`

	FabricMetres float64 `json:"fabric_metres" gorm:"type:decimal(8,2);default:0"`
	Breakdown    JSONB   `json:"breakdown" gorm:"type:jsonb"`

	Quantity  int     `json:"quantity" gorm:"default:1"`
	UnitPrice float64 `json:"unit_price" gorm:"type:decimal(12,2);default:0"`
	LineTotal float64 `json:"line_total" gorm:"type:decimal(12,2);default:0"`

	SortOrder int       `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
}

func (QuoteLineItem) TableName() string {
	return "crm_quote_line_items"
}
