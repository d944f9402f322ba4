package repository

import (
	"context"
	"errors"

	"github.com/drapehq/drapehq/internal/store/entity"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a store record does not exist.
var ErrNotFound = errors.New("record not found")

// StorefrontRepository handles storefront persistence.
type StorefrontRepository struct {
	db *gorm.DB
}

func NewStorefrontRepository(db *gorm.DB) *StorefrontRepository {
	return &StorefrontRepository{db: db}
}

func (r *StorefrontRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Storefront, int64, error) {
	var stores []entity.Storefront
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Storefront{})

	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR slug ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if published := filters["published"]; published != "" {
		query = query.Where("published = ?", published == "true")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&stores).Error
	return stores, total, err
}

func (r *StorefrontRepository) FindByID(ctx context.Context, id string) (*entity.Storefront, error) {
	var store entity.Storefront
	err := r.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		First(&store, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &store, nil
}

// FindPublishedBySlug serves the public storefront page. Only visible
// products are attached.
func (r *StorefrontRepository) FindPublishedBySlug(ctx context.Context, slug string) (*entity.Storefront, error) {
	var store entity.Storefront
	err := r.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Where("visible = ?", true).Order("sort_order ASC, created_at ASC")
		}).
		First(&store, "slug = ? AND published = ?", slug, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &store, nil
}

// SlugExists reports whether a slug is already taken by another store.
func (r *StorefrontRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.Storefront{}).Where("slug = ?", slug)
	if excludeID != "" {
		query = query.Where("id != ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *StorefrontRepository) Create(ctx context.Context, store *entity.Storefront) error {
	return r.db.WithContext(ctx).Create(store).Error
}

func (r *StorefrontRepository) Update(ctx context.Context, store *entity.Storefront) error {
	return r.db.WithContext(ctx).Save(store).Error
}

func (r *StorefrontRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("store_id = ?", id).Delete(&entity.StoreProduct{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entity.Storefront{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *StorefrontRepository) CreateProduct(ctx context.Context, product *entity.StoreProduct) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *StorefrontRepository) FindProduct(ctx context.Context, storeID, productID string) (*entity.StoreProduct, error) {
	var product entity.StoreProduct
	err := r.db.WithContext(ctx).
		First(&product, "id = ? AND store_id = ?", productID, storeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *StorefrontRepository) UpdateProduct(ctx context.Context, product *entity.StoreProduct) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *StorefrontRepository) DeleteProduct(ctx context.Context, storeID, productID string) error {
	result := r.db.WithContext(ctx).
		Delete(&entity.StoreProduct{}, "id = ? AND store_id = ?", productID, storeID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
