package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	catalog "github.com/drapehq/drapehq/internal/catalog/service"
	"github.com/drapehq/drapehq/internal/shared/storage"
	"github.com/drapehq/drapehq/internal/sse"
	"github.com/drapehq/drapehq/internal/store/entity"
	"github.com/drapehq/drapehq/internal/store/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StorefrontService manages the store builder.
type StorefrontService struct {
	repo      *repository.StorefrontRepository
	materials *catalog.MaterialService
	files     *storage.Store
	logger    *zap.Logger
}

func NewStorefrontService(repo *repository.StorefrontRepository, materials *catalog.MaterialService, files *storage.Store, logger *zap.Logger) *StorefrontService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorefrontService{repo: repo, materials: materials, files: files, logger: logger}
}

// StorefrontRequest is the create/update payload. Stores are small
// enough to replace whole.
type StorefrontRequest struct {
	Name         string `json:"name" binding:"required"`
	Slug         string `json:"slug"`
	Tagline      string `json:"tagline"`
	About        string `json:"about"`
	ThemePrimary string `json:"theme_primary"`
	ThemeAccent  string `json:"theme_accent"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
}

// StoreProductRequest attaches or updates a catalog material on a store.
type StoreProductRequest struct {
	MaterialID    string   `json:"material_id" binding:"required"`
	DisplayName   string   `json:"display_name"`
	Description   string   `json:"description"`
	PriceOverride *float64 `json:"price_override"`
	Visible       *bool    `json:"visible"`
	SortOrder     int      `json:"sort_order"`
}

func (s *StorefrontService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Storefront, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

func (s *StorefrontService) Get(ctx context.Context, id string) (*entity.Storefront, error) {
	return s.repo.FindByID(ctx, id)
}

// GetPublic serves the published storefront page by slug, with effective
// prices resolved against the catalog.
func (s *StorefrontService) GetPublic(ctx context.Context, slug string) (*entity.Storefront, error) {
	store, err := s.repo.FindPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	s.resolvePrices(ctx, store)
	return store, nil
}

func (s *StorefrontService) Create(ctx context.Context, userID string, req *StorefrontRequest) (*entity.Storefront, error) {
	slug, err := s.uniqueSlug(ctx, req.Slug, req.Name, "")
	if err != nil {
		return nil, err
	}

	store := &entity.Storefront{
		ID:           uuid.New().String()[:32],
		Name:         req.Name,
		Slug:         slug,
		Tagline:      req.Tagline,
		About:        req.About,
		ThemePrimary: req.ThemePrimary,
		ThemeAccent:  req.ThemeAccent,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		CreatedBy:    userID,
	}
	if store.ThemePrimary == "" {
		store.ThemePrimary = "#1F3A5F"
	}
	if store.ThemeAccent == "" {
		store.ThemeAccent = "#C8A975"
	}

	if err := s.repo.Create(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *StorefrontService) Update(ctx context.Context, id string, req *StorefrontRequest) (*entity.Storefront, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, req.Slug, req.Name, id)
	if err != nil {
		return nil, err
	}

	store.Name = req.Name
	store.Slug = slug
	store.Tagline = req.Tagline
	store.About = req.About
	if req.ThemePrimary != "" {
		store.ThemePrimary = req.ThemePrimary
	}
	if req.ThemeAccent != "" {
		store.ThemeAccent = req.ThemeAccent
	}
	store.ContactEmail = req.ContactEmail
	store.ContactPhone = req.ContactPhone

	if err := s.repo.Update(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *StorefrontService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// SetPublished flips the public visibility of a store and notifies
// dashboard listeners.
func (s *StorefrontService) SetPublished(ctx context.Context, id string, published bool) (*entity.Storefront, error) {
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	store.Published = published
	if published {
		now := time.Now()
		store.PublishedAt = &now
	} else {
		store.PublishedAt = nil
	}

	if err := s.repo.Update(ctx, store); err != nil {
		return nil, err
	}

	status := "unpublished"
	if published {
		status = "published"
	}
	sse.PublishStoreUpdate(store.ID, status)
	return store, nil
}

// AddProduct attaches a catalog material to the store. The material must
// exist and be active.
func (s *StorefrontService) AddProduct(ctx context.Context, storeID string, req *StoreProductRequest) (*entity.StoreProduct, error) {
	if _, err := s.repo.FindByID(ctx, storeID); err != nil {
		return nil, err
	}

	material, err := s.materials.Get(ctx, req.MaterialID)
	if err != nil {
		return nil, fmt.Errorf("material: %w", err)
	}

	product := &entity.StoreProduct{
		ID:            uuid.New().String()[:32],
		StoreID:       storeID,
		MaterialID:    material.ID,
		DisplayName:   req.DisplayName,
		Description:   req.Description,
		PriceOverride: req.PriceOverride,
		Visible:       true,
		SortOrder:     req.SortOrder,
	}
	if product.DisplayName == "" {
		product.DisplayName = material.Name
	}
	if req.Visible != nil {
		product.Visible = *req.Visible
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *StorefrontService) UpdateProduct(ctx context.Context, storeID, productID string, req *StoreProductRequest) (*entity.StoreProduct, error) {
	product, err := s.repo.FindProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != "" {
		product.DisplayName = req.DisplayName
	}
	product.Description = req.Description
	product.PriceOverride = req.PriceOverride
	product.SortOrder = req.SortOrder
	if req.Visible != nil {
		product.Visible = *req.Visible
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *StorefrontService) RemoveProduct(ctx context.Context, storeID, productID string) error {
	return s.repo.DeleteProduct(ctx, storeID, productID)
}

// UploadProductImage stores a product photo in object storage and saves
// its URL on the product.
func (s *StorefrontService) UploadProductImage(ctx context.Context, storeID, productID string, file *multipart.FileHeader) (*entity.StoreProduct, error) {
	if !s.files.Enabled() {
		return nil, fmt.Errorf("object storage is not configured")
	}

	product, err := s.repo.FindProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	url, err := s.files.Upload(ctx, "store", file.Filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	product.ImageURL = url
	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// uniqueSlug normalizes the requested slug (falling back to the name)
// and suffixes a counter until it is free.
func (s *StorefrontService) uniqueSlug(ctx context.Context, requested, name, excludeID string) (string, error) {
	base := entity.Slugify(requested)
	if base == "" {
		base = entity.Slugify(name)
	}
	if base == "" {
		return "", fmt.Errorf("store name yields an empty slug")
	}

	slug := base
	for i := 2; ; i++ {
		taken, err := s.repo.SlugExists(ctx, slug, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// resolvePrices fills the price override on visible products from the
// live catalog price where no override is set.
func (s *StorefrontService) resolvePrices(ctx context.Context, store *entity.Storefront) {
	for i := range store.Products {
		p := &store.Products[i]
		if p.PriceOverride != nil {
			continue
		}
		material, err := s.materials.Get(ctx, p.MaterialID)
		if err != nil {
			s.logger.Warn("storefront price lookup failed",
				zap.String("store_id", store.ID),
				zap.String("material_id", p.MaterialID),
				zap.Error(err))
			continue
		}
		if material.PricePerUnit != nil {
			price := *material.PricePerUnit
			p.PriceOverride = &price
		}
	}
}
