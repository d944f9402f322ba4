package service

import (
	"context"

	"github.com/drapehq/drapehq/internal/crm/entity"
	"github.com/drapehq/drapehq/internal/crm/repository"
	"github.com/google/uuid"
)

// ClientService manages customers and the sales funnel.
type ClientService struct {
	repo *repository.ClientRepository
}

func NewClientService(repo *repository.ClientRepository) *ClientService {
	return &ClientService{repo: repo}
}

// CreateClientRequest is the create payload.
type CreateClientRequest struct {
	Name       string             `json:"name" binding:"required"`
	ClientType string             `json:"client_type"`
	Email      string             `json:"email"`
	Phone      string             `json:"phone"`
	Company    string             `json:"company"`
	Address    string             `json:"address"`
	City       string             `json:"city"`
	Postcode   string             `json:"postcode"`
	Source     string             `json:"source"`
	Tags       *entity.JSONBArray `json:"tags"`
	AssignedTo string             `json:"assigned_to"`
	Notes      string             `json:"notes"`
}

// UpdateClientRequest is the partial update payload.
type UpdateClientRequest struct {
	Name       *string            `json:"name"`
	ClientType *string            `json:"client_type"`
	Stage      *string            `json:"stage"`
	Email      *string            `json:"email"`
	Phone      *string            `json:"phone"`
	Company    *string            `json:"company"`
	Address    *string            `json:"address"`
	City       *string            `json:"city"`
	Postcode   *string            `json:"postcode"`
	Source     *string            `json:"source"`
	Tags       *entity.JSONBArray `json:"tags"`
	AssignedTo *string            `json:"assigned_to"`
	Notes      *string            `json:"notes"`
}

func (s *ClientService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Client, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

func (s *ClientService) Get(ctx context.Context, id string) (*entity.Client, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ClientService) Create(ctx context.Context, userID string, req *CreateClientRequest) (*entity.Client, error) {
	code, err := s.repo.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}

	client := &entity.Client{
		ID:         uuid.New().String()[:32],
		Code:       code,
		Name:       req.Name,
		ClientType: req.ClientType,
		Stage:      entity.StageLead,
		Email:      req.Email,
		Phone:      req.Phone,
		Company:    req.Company,
		Address:    req.Address,
		City:       req.City,
		Postcode:   req.Postcode,
		Source:     req.Source,
		Tags:       req.Tags,
		AssignedTo: req.AssignedTo,
		Notes:      req.Notes,
		CreatedBy:  userID,
	}
	if client.ClientType == "" {
		client.ClientType = entity.ClientTypeResidential
	}

	if err := s.repo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) Update(ctx context.Context, id string, req *UpdateClientRequest) (*entity.Client, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.ClientType != nil {
		client.ClientType = *req.ClientType
	}
	if req.Stage != nil {
		client.Stage = *req.Stage
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Company != nil {
		client.Company = *req.Company
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.City != nil {
		client.City = *req.City
	}
	if req.Postcode != nil {
		client.Postcode = *req.Postcode
	}
	if req.Source != nil {
		client.Source = *req.Source
	}
	if req.Tags != nil {
		client.Tags = req.Tags
	}
	if req.AssignedTo != nil {
		client.AssignedTo = *req.AssignedTo
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// FunnelCounts returns client counts per funnel stage.
func (s *ClientService) FunnelCounts(ctx context.Context) (map[string]int64, error) {
	return s.repo.CountByStage(ctx)
}
