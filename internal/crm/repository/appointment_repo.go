package repository

import (
	"context"
	"errors"
	"time"

	"github.com/drapehq/drapehq/internal/crm/entity"
	"gorm.io/gorm"
)

// AppointmentRepository handles scheduled visits.
type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Appointment, int64, error) {
	var appointments []entity.Appointment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Appointment{})

	if search := filters["search"]; search != "" {
		query = query.Where("title ILIKE ? OR location ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if apptType := filters["type"]; apptType != "" {
		query = query.Where("type = ?", apptType)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if clientID := filters["client_id"]; clientID != "" {
		query = query.Where("client_id = ?", clientID)
	}
	if assignedTo := filters["assigned_to"]; assignedTo != "" {
		query = query.Where("assigned_to = ?", assignedTo)
	}
	if from := filters["from"]; from != "" {
		query = query.Where("starts_at >= ?", from)
	}
	if to := filters["to"]; to != "" {
		query = query.Where("starts_at < ?", to)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Client").
		Order("starts_at ASC").
		Offset(offset).
		Limit(pageSize).
		Find(&appointments).Error

	return appointments, total, err
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Project").
		Where("id = ?", id).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &appointment, nil
}

// FindConflicts returns scheduled appointments for the same user that
// overlap the given range, excluding one appointment id.
func (r *AppointmentRepository) FindConflicts(ctx context.Context, assignedTo string, start, end time.Time, excludeID string) ([]entity.Appointment, error) {
	var conflicts []entity.Appointment
	query := r.db.WithContext(ctx).
		Where("assigned_to = ?", assignedTo).
		Where("status = ?", entity.AppointmentStatusScheduled).
		Where("starts_at < ? AND ends_at > ?", end, start)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Order("starts_at ASC").Find(&conflicts).Error
	return conflicts, err
}

// FindDueReminders returns scheduled appointments starting within the
// window whose reminder has not been sent.
func (r *AppointmentRepository) FindDueReminders(ctx context.Context, window time.Duration) ([]entity.Appointment, error) {
	now := time.Now()
	var due []entity.Appointment
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.AppointmentStatusScheduled).
		Where("reminder_sent = ?", false).
		Where("starts_at > ? AND starts_at <= ?", now, now.Add(window)).
		Order("starts_at ASC").
		Find(&due).Error
	return due, err
}

// MarkReminderSent flags the appointment so the reminder fires once.
func (r *AppointmentRepository) MarkReminderSent(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Appointment{}).
		Where("id = ?", id).
		UpdateColumn("reminder_sent", true).
		Error
}

func (r *AppointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

func (r *AppointmentRepository) Update(ctx context.Context, appointment *entity.Appointment) error {
	return r.db.WithContext(ctx).Save(appointment).Error
}

func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Appointment{}).Error
}
