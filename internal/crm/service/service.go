package service

import (
	catalog "github.com/drapehq/drapehq/internal/catalog/service"
	"github.com/drapehq/drapehq/internal/config"
	"github.com/drapehq/drapehq/internal/crm/repository"
	"github.com/drapehq/drapehq/internal/shared/notify"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services is the CRM service set.
type Services struct {
	Auth        *AuthService
	User        *UserService
	Client      *ClientService
	Project     *ProjectService
	Appointment *AppointmentService
	Quote       *QuoteService
}

// NewServices creates the CRM service set. The catalog services are
// shared: quotes price their lines through the calculator and consume
// inventory on acceptance.
func NewServices(
	repos *repository.Repositories,
	catalogSvcs *catalog.Services,
	rdb *redis.Client,
	cfg *config.Config,
	notifier *notify.Client,
	logger *zap.Logger,
) *Services {
	return &Services{
		Auth:        NewAuthService(repos.User, rdb, cfg),
		User:        NewUserService(repos.User),
		Client:      NewClientService(repos.Client),
		Project:     NewProjectService(repos.Project, repos.Client),
		Appointment: NewAppointmentService(repos.Appointment, notifier, logger),
		Quote: NewQuoteService(
			repos.Quote,
			repos.Client,
			repos.Project,
			catalogSvcs.Calc,
			catalogSvcs.Material,
			catalogSvcs.Settings,
			notifier,
			logger,
		),
	}
}
