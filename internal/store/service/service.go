package service

import (
	catalog "github.com/drapehq/drapehq/internal/catalog/service"
	"github.com/drapehq/drapehq/internal/shared/storage"
	"github.com/drapehq/drapehq/internal/store/repository"
	"go.uber.org/zap"
)

// Services is the store service set.
type Services struct {
	Storefront *StorefrontService
}

// NewServices creates the store service set.
func NewServices(repo *repository.StorefrontRepository, materials *catalog.MaterialService, files *storage.Store, logger *zap.Logger) *Services {
	return &Services{
		Storefront: NewStorefrontService(repo, materials, files, logger),
	}
}
