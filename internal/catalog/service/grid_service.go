package service

import (
	"context"

	"github.com/drapehq/drapehq/internal/catalog/entity"
	"github.com/drapehq/drapehq/internal/catalog/pricing"
	"github.com/drapehq/drapehq/internal/catalog/repository"
	"github.com/google/uuid"
)

// GridService manages pricing grids and answers resolution queries
// against the active set.
type GridService struct {
	repo *repository.GridRepository
}

func NewGridService(repo *repository.GridRepository) *GridService {
	return &GridService{repo: repo}
}

// GridRequest is the grid payload for create and update.
type GridRequest struct {
	Name        string `json:"name" binding:"required"`
	GridCode    string `json:"grid_code" binding:"required"`
	SupplierID  string `json:"supplier_id"`
	ProductType string `json:"product_type" binding:"required"`
	PriceGroup  string `json:"price_group" binding:"required"`
	Active      *bool  `json:"active"`
}

func (s *GridService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.PricingGrid, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

func (s *GridService) Get(ctx context.Context, id string) (*entity.PricingGrid, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *GridService) Create(ctx context.Context, userID string, req *GridRequest) (*entity.PricingGrid, error) {
	grid := &entity.PricingGrid{
		ID:          uuid.New().String()[:32],
		Name:        req.Name,
		GridCode:    req.GridCode,
		SupplierID:  req.SupplierID,
		ProductType: req.ProductType,
		PriceGroup:  req.PriceGroup,
		Active:      true,
		CreatedBy:   userID,
	}
	if req.Active != nil {
		grid.Active = *req.Active
	}

	if err := s.repo.Create(ctx, grid); err != nil {
		return nil, err
	}
	return grid, nil
}

func (s *GridService) Update(ctx context.Context, id string, req *GridRequest) (*entity.PricingGrid, error) {
	grid, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	grid.Name = req.Name
	grid.GridCode = req.GridCode
	grid.SupplierID = req.SupplierID
	grid.ProductType = req.ProductType
	grid.PriceGroup = req.PriceGroup
	if req.Active != nil {
		grid.Active = *req.Active
	}

	if err := s.repo.Update(ctx, grid); err != nil {
		return nil, err
	}
	return grid, nil
}

func (s *GridService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Resolve runs a grid lookup against the active grids. A miss or an
// ambiguous result is a normal outcome, reported as data.
func (s *GridService) Resolve(ctx context.Context, q pricing.GridQuery) (*pricing.Resolution, error) {
	grids, err := s.activeGrids(ctx)
	if err != nil {
		return nil, err
	}
	res := pricing.ResolveGrid(grids, q)
	return &res, nil
}

// Diagnose explains why a lookup failed, broadest cause first.
func (s *GridService) Diagnose(ctx context.Context, q pricing.GridQuery) ([]pricing.GridIssue, error) {
	grids, err := s.activeGrids(ctx)
	if err != nil {
		return nil, err
	}
	return pricing.DiagnoseGrid(grids, q), nil
}

func (s *GridService) activeGrids(ctx context.Context) ([]pricing.Grid, error) {
	records, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	grids := make([]pricing.Grid, 0, len(records))
	for i := range records {
		grids = append(grids, records[i].ToPricing())
	}
	return grids, nil
}
