package service

import (
	"context"

	"github.com/drapehq/drapehq/internal/catalog/entity"
	"github.com/drapehq/drapehq/internal/catalog/repository"
	"github.com/google/uuid"
)

// SupplierService manages fabric houses and other vendors.
type SupplierService struct {
	repo *repository.SupplierRepository
}

func NewSupplierService(repo *repository.SupplierRepository) *SupplierService {
	return &SupplierService{repo: repo}
}

// CreateSupplierRequest is the create payload.
type CreateSupplierRequest struct {
	Name          string   `json:"name" binding:"required"`
	ShortName     string   `json:"short_name"`
	Category      string   `json:"category" binding:"required"`
	Country       string   `json:"country"`
	City          string   `json:"city"`
	Address       string   `json:"address"`
	Website       string   `json:"website"`
	LeadTimeDays  *int     `json:"lead_time_days"`
	MinOrderValue *float64 `json:"min_order_value"`
	PaymentTerms  string   `json:"payment_terms"`
	Currency      string   `json:"currency"`
	Notes         string   `json:"notes"`
}

// UpdateSupplierRequest is the partial update payload.
type UpdateSupplierRequest struct {
	Name          *string  `json:"name"`
	ShortName     *string  `json:"short_name"`
	Category      *string  `json:"category"`
	Status        *string  `json:"status"`
	Country       *string  `json:"country"`
	City          *string  `json:"city"`
	Address       *string  `json:"address"`
	Website       *string  `json:"website"`
	LeadTimeDays  *int     `json:"lead_time_days"`
	MinOrderValue *float64 `json:"min_order_value"`
	PaymentTerms  *string  `json:"payment_terms"`
	Currency      *string  `json:"currency"`
	Notes         *string  `json:"notes"`
}

func (s *SupplierService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Supplier, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

func (s *SupplierService) Get(ctx context.Context, id string) (*entity.Supplier, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *SupplierService) Create(ctx context.Context, userID string, req *CreateSupplierRequest) (*entity.Supplier, error) {
	code, err := s.repo.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}

	supplier := &entity.Supplier{
		ID:            uuid.New().String()[:32],
		Code:          code,
		Name:          req.Name,
		ShortName:     req.ShortName,
		Category:      req.Category,
		Status:        entity.SupplierStatusActive,
		Country:       req.Country,
		City:          req.City,
		Address:       req.Address,
		Website:       req.Website,
		LeadTimeDays:  req.LeadTimeDays,
		MinOrderValue: req.MinOrderValue,
		PaymentTerms:  req.PaymentTerms,
		Currency:      req.Currency,
		Notes:         req.Notes,
		CreatedBy:     userID,
	}
	if supplier.Currency == "" {
		supplier.Currency = "GBP"
	}

	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *SupplierService) Update(ctx context.Context, id string, req *UpdateSupplierRequest) (*entity.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.ShortName != nil {
		supplier.ShortName = *req.ShortName
	}
	if req.Category != nil {
		supplier.Category = *req.Category
	}
	if req.Status != nil {
		supplier.Status = *req.Status
	}
	if req.Country != nil {
		supplier.Country = *req.Country
	}
	if req.City != nil {
		supplier.City = *req.City
	}
	if req.Address != nil {
		supplier.Address = *req.Address
	}
	if req.Website != nil {
		supplier.Website = *req.Website
	}
	if req.LeadTimeDays != nil {
		supplier.LeadTimeDays = req.LeadTimeDays
	}
	if req.MinOrderValue != nil {
		supplier.MinOrderValue = req.MinOrderValue
	}
	if req.PaymentTerms != nil {
		supplier.PaymentTerms = *req.PaymentTerms
	}
	if req.Currency != nil {
		supplier.Currency = *req.Currency
	}
	if req.Notes != nil {
		supplier.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *SupplierService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *SupplierService) ListContacts(ctx context.Context, supplierID string) ([]entity.SupplierContact, error) {
	return s.repo.FindContacts(ctx, supplierID)
}

// CreateContactRequest is the contact create payload.
type CreateContactRequest struct {
	Name      string `json:"name" binding:"required"`
	Title     string `json:"title"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	IsPrimary bool   `json:"is_primary"`
}

func (s *SupplierService) CreateContact(ctx context.Context, supplierID string, req *CreateContactRequest) (*entity.SupplierContact, error) {
	contact := &entity.SupplierContact{
		ID:         uuid.New().String()[:32],
		SupplierID: supplierID,
		Name:       req.Name,
		Title:      req.Title,
		Phone:      req.Phone,
		Email:      req.Email,
		IsPrimary:  req.IsPrimary,
	}
	if err := s.repo.CreateContact(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *SupplierService) DeleteContact(ctx context.Context, contactID string) error {
	return s.repo.DeleteContact(ctx, contactID)
}
