package entity

import "time"

// Appointment is a scheduled visit: consultation, measure or fit.
type Appointment struct {
	ID        string `json:"id" gorm:"primaryKey;size:32"`
	Title     string `json:"title" gorm:"size:200;not null"`
	Type      string `json:"type" gorm:"size:20;not null"`
	Status    string `json:"status" gorm:"size:20;default:scheduled"`
	ClientID  string `json:"client_id" gorm:"size:32;index"`
	ProjectID string `json:"project_id" gorm:"size:32;index"`

	StartsAt time.Time `json:"starts_at" gorm:"not null;index"`
	EndsAt   time.Time `json:"ends_at" gorm:"not null"`
	Location string    `json:"location" gorm:"size:500"`

	AssignedTo   string `json:"assigned_to" gorm:"size:32;not null;index"`
	ReminderSent bool   `json:"reminder_sent" gorm:"default:false"`
	Notes        string `json:"notes" gorm:"type:text"`

	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Client  *Client  `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Project *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
}

func (Appointment) TableName() string {
	return "crm_appointments"
}

// Appointment types
const (
	AppointmentConsultation = "consultation"
	AppointmentMeasurement  = "measurement"
	AppointmentInstallation = "installation"
	AppointmentFollowUp     = "follow_up"
)

// Appointment statuses
const (
	AppointmentStatusScheduled = "scheduled"
	AppointmentStatusCompleted = "completed"
	AppointmentStatusCancelled = "cancelled"
)

// Overlaps reports whether two time ranges intersect.
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.StartsAt.Before(end) && start.Before(a.EndsAt)
}
