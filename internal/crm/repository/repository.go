package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories is the CRM repository set.
type Repositories struct {
	User        *UserRepository
	Client      *ClientRepository
	Project     *ProjectRepository
	Appointment *AppointmentRepository
	Quote       *QuoteRepository
}

// NewRepositories creates the CRM repository set.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Client:      NewClientRepository(db),
		Project:     NewProjectRepository(db),
		Appointment: NewAppointmentRepository(db),
		Quote:       NewQuoteRepository(db),
	}
}
