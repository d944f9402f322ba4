package entity

import "time"

// Client is a customer record, tracked through the sales funnel from
// first enquiry to a won or lost job.
type Client struct {
	ID         string `json:"id" gorm:"primaryKey;size:32"`
	Code       string `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name       string `json:"name" gorm:"size:200;not null"`
	ClientType string `json:"client_type" gorm:"size:20;default:residential"`
	Stage      string `json:"stage" gorm:"size:20;default:lead"`

	Email   string `json:"email" gorm:"size:200"`
	Phone   string `json:"phone" gorm:"size:50"`
	Company string `json:"company" gorm:"size:200"`

	Address  string `json:"address" gorm:"size:500"`
	City     string `json:"city" gorm:"size:100"`
	Postcode string `json:"postcode" gorm:"size:20"`

	Source     string      `json:"source" gorm:"size:50"`
	Tags       *JSONBArray `json:"tags" gorm:"type:jsonb"`
	AssignedTo string      `json:"assigned_to" gorm:"size:32;index"`
	Notes      string      `json:"notes" gorm:"type:text"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Client) TableName() string {
	return "crm_clients"
}

// Client types
const (
	ClientTypeResidential = "residential"
	ClientTypeCommercial  = "commercial"
	ClientTypeTrade       = "trade"
)

// Funnel stages
const (
	StageLead      = "lead"
	StageContacted = "contacted"
	StageMeasured  = "measured"
	StageQuoted    = "quoted"
	StageWon       = "won"
	StageLost      = "lost"
)
