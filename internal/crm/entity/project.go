package entity

import "time"

// Project is one job for a client, from enquiry through installation.
type Project struct {
	ID        string `json:"id" gorm:"primaryKey;size:32"`
	JobNumber string `json:"job_number" gorm:"size:32;uniqueIndex;not null"`
	Name      string `json:"name" gorm:"size:200;not null"`
	ClientID  string `json:"client_id" gorm:"size:32;not null;index"`
	Status    string `json:"status" gorm:"size:20;default:draft"`

	SiteAddress string `json:"site_address" gorm:"size:500"`
	Description string `json:"description" gorm:"type:text"`

	StartDate *time.Time `json:"start_date"`
	DueDate   *time.Time `json:"due_date"`

	AssignedTo string `json:"assigned_to" gorm:"size:32;index"`
	Notes      string `json:"notes" gorm:"type:text"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Client *Client `json:"client,omitempty" gorm:"foreignKey:ClientID"`
}

func (Project) TableName() string {
	return "crm_projects"
}

// Project statuses, in workflow order.
const (
	ProjectStatusDraft        = "draft"
	ProjectStatusQuoted       = "quoted"
	ProjectStatusApproved     = "approved"
	ProjectStatusInProduction = "in_production"
	ProjectStatusInstalled    = "installed"
	ProjectStatusClosed       = "closed"
	ProjectStatusCancelled    = "cancelled"
)

// projectTransitions lists the allowed status moves. Cancellation is
// allowed from any state except closed.
var projectTransitions = map[string][]string{
	ProjectStatusDraft:        {ProjectStatusQuoted},
	ProjectStatusQuoted:       {ProjectStatusApproved, ProjectStatusDraft},
	ProjectStatusApproved:     {ProjectStatusInProduction},
	ProjectStatusInProduction: {ProjectStatusInstalled},
	ProjectStatusInstalled:    {ProjectStatusClosed},
}

// CanTransition reports whether the project may move to the target status.
func (p *Project) CanTransition(target string) bool {
	if target == ProjectStatusCancelled {
		return p.Status != ProjectStatusClosed && p.Status != ProjectStatusCancelled
	}
	for _, next := range projectTransitions[p.Status] {
		if next == target {
			return true
		}
	}
	return false
}
