package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/drapehq/drapehq/internal/crm/entity"
	"gorm.io/gorm"
)

// QuoteRepository handles quotes and their line items.
type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

func (r *QuoteRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Quote, int64, error) {
	var quotes []entity.Quote
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Quote{})

	if search := filters["search"]; search != "" {
		query = query.Where("quote_number ILIKE ?", "%"+search+"%")
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if clientID := filters["client_id"]; clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if projectID := filters["project_id"]; projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Client").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&quotes).Error

	return quotes, total, err
}

func (r *QuoteRepository) FindByID(ctx context.Context, id string) (*entity.Quote, error) {
	var quote entity.Quote
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Project").
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Where("id = ?", id).
		First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &quote, nil
}

func (r *QuoteRepository) Create(ctx context.Context, quote *entity.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *QuoteRepository) Update(ctx context.Context, quote *entity.Quote) error {
	return r.db.WithContext(ctx).Save(quote).Error
}

func (r *QuoteRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", id).Delete(&entity.QuoteLineItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Quote{}).Error
	})
}

func (r *QuoteRepository) CreateLineItem(ctx context.Context, item *entity.QuoteLineItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *QuoteRepository) FindLineItem(ctx context.Context, quoteID, itemID string) (*entity.QuoteLineItem, error) {
	var item entity.QuoteLineItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND quote_id = ?", itemID, quoteID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *QuoteRepository) DeleteLineItem(ctx context.Context, quoteID, itemID string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND quote_id = ?", itemID, quoteID).
		Delete(&entity.QuoteLineItem{}).Error
}

// UpdateTotals recalculates the quote totals from its line items.
func (r *QuoteRepository) UpdateTotals(ctx context.Context, quote *entity.Quote) error {
	var subtotal float64
	err := r.db.WithContext(ctx).
		Model(&entity.QuoteLineItem{}).
		Where("quote_id = ?", quote.ID).
		Select("COALESCE(SUM(line_total), 0)").
		Scan(&subtotal).Error
	if err != nil {
		return err
	}

	quote.Subtotal = subtotal
	quote.TaxAmount = round2(subtotal * quote.TaxPercent / 100)
	quote.Total = round2(subtotal + quote.TaxAmount)
	return r.db.WithContext(ctx).Save(quote).Error
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// GenerateNumber allocates the next quote number for the current year.
func (r *QuoteRepository) GenerateNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("QT-%d", year)

	var maxNumber string
	err := r.db.WithContext(ctx).
		Model(&entity.Quote{}).
		Where("quote_number LIKE ?", prefix+"-%").
		Select(fmt.Sprintf("COALESCE(MAX(quote_number), '%s-0000')", prefix)).
		Scan(&maxNumber).Error
	if err != nil {
		return "", err
	}

	var seq int
	fmt.Sscanf(maxNumber, prefix+"-%04d", &seq)
	seq++
	return fmt.Sprintf("%s-%04d", prefix, seq), nil
}
