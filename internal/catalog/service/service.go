package service

import (
	"github.com/drapehq/drapehq/internal/catalog/repository"
	"github.com/redis/go-redis/v9"
)

// Services is the catalog service set.
type Services struct {
	Supplier *SupplierService
	Material *MaterialService
	Template *TemplateService
	Grid     *GridService
	Calc     *CalcService
	Settings *SettingsService
}

// NewServices creates the catalog service set.
func NewServices(repos *repository.Repositories, rdb *redis.Client) *Services {
	return &Services{
		Supplier: NewSupplierService(repos.Supplier),
		Material: NewMaterialService(repos.Material, rdb),
		Template: NewTemplateService(repos.Template),
		Grid:     NewGridService(repos.Grid),
		Calc:     NewCalcService(repos.Template, repos.Material, repos.Settings),
		Settings: NewSettingsService(repos.Settings),
	}
}
