package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories is the catalog repository set.
type Repositories struct {
	Supplier *SupplierRepository
	Material *MaterialRepository
	Template *TemplateRepository
	Grid     *GridRepository
	Settings *SettingsRepository
}

// NewRepositories creates the catalog repository set.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Supplier: NewSupplierRepository(db),
		Material: NewMaterialRepository(db),
		Template: NewTemplateRepository(db),
		Grid:     NewGridRepository(db),
		Settings: NewSettingsRepository(db),
	}
}
