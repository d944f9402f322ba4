package service

import (
	"context"
	"fmt"
	"time"

	"github.com/drapehq/drapehq/internal/crm/entity"
	"github.com/drapehq/drapehq/internal/crm/repository"
	"github.com/drapehq/drapehq/internal/shared/notify"
	"github.com/drapehq/drapehq/internal/sse"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrScheduleConflict is returned when an appointment overlaps another
// for the same assignee.
type ErrScheduleConflict struct {
	Conflicts []entity.Appointment
}

func (e *ErrScheduleConflict) Error() string {
	return fmt.Sprintf("schedule conflict with %d existing appointment(s)", len(e.Conflicts))
}

// AppointmentService manages the visit diary.
type AppointmentService struct {
	repo     *repository.AppointmentRepository
	notifier *notify.Client
	logger   *zap.Logger
}

func NewAppointmentService(repo *repository.AppointmentRepository, notifier *notify.Client, logger *zap.Logger) *AppointmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AppointmentService{repo: repo, notifier: notifier, logger: logger}
}

// AppointmentRequest is the appointment payload for create and update.
type AppointmentRequest struct {
	Title      string    `json:"title" binding:"required"`
	Type       string    `json:"type" binding:"required"`
	ClientID   string    `json:"client_id"`
	ProjectID  string    `json:"project_id"`
	StartsAt   time.Time `json:"starts_at" binding:"required"`
	EndsAt     time.Time `json:"ends_at" binding:"required"`
	Location   string    `json:"location"`
	AssignedTo string    `json:"assigned_to" binding:"required"`
	Notes      string    `json:"notes"`

	// Force books over a conflict after the caller has confirmed it.
	Force bool `json:"force"`
}

func (s *AppointmentService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Appointment, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

func (s *AppointmentService) Get(ctx context.Context, id string) (*entity.Appointment, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AppointmentService) Create(ctx context.Context, userID string, req *AppointmentRequest) (*entity.Appointment, error) {
	if err := validateRange(req.StartsAt, req.EndsAt); err != nil {
		return nil, err
	}

	if !req.Force {
		conflicts, err := s.repo.FindConflicts(ctx, req.AssignedTo, req.StartsAt, req.EndsAt, "")
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, &ErrScheduleConflict{Conflicts: conflicts}
		}
	}

	appointment := &entity.Appointment{
		ID:         uuid.New().String()[:32],
		Title:      req.Title,
		Type:       req.Type,
		Status:     entity.AppointmentStatusScheduled,
		ClientID:   req.ClientID,
		ProjectID:  req.ProjectID,
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
		Location:   req.Location,
		AssignedTo: req.AssignedTo,
		Notes:      req.Notes,
		CreatedBy:  userID,
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (s *AppointmentService) Update(ctx context.Context, id string, req *AppointmentRequest) (*entity.Appointment, error) {
	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateRange(req.StartsAt, req.EndsAt); err != nil {
		return nil, err
	}

	if !req.Force {
		conflicts, err := s.repo.FindConflicts(ctx, req.AssignedTo, req.StartsAt, req.EndsAt, id)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, &ErrScheduleConflict{Conflicts: conflicts}
		}
	}

	rescheduled := !appointment.StartsAt.Equal(req.StartsAt)

	appointment.Title = req.Title
	appointment.Type = req.Type
	appointment.ClientID = req.ClientID
	appointment.ProjectID = req.ProjectID
	appointment.StartsAt = req.StartsAt
	appointment.EndsAt = req.EndsAt
	appointment.Location = req.Location
	appointment.AssignedTo = req.AssignedTo
	appointment.Notes = req.Notes
	if rescheduled {
		appointment.ReminderSent = false
	}

	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

// UpdateStatus marks the appointment completed or cancelled.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id, status string) (*entity.Appointment, error) {
	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch status {
	case entity.AppointmentStatusCompleted, entity.AppointmentStatusCancelled:
	default:
		return nil, fmt.Errorf("invalid appointment status %q", status)
	}

	appointment.Status = status
	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// SendDueReminders pushes reminders for appointments starting within the
// window. Called from a ticker goroutine in main.
func (s *AppointmentService) SendDueReminders(ctx context.Context, window time.Duration) {
	due, err := s.repo.FindDueReminders(ctx, window)
	if err != nil {
		s.logger.Error("load due reminders", zap.Error(err))
		return
	}

	for i := range due {
		a := due[i]
		if err := s.repo.MarkReminderSent(ctx, a.ID); err != nil {
			s.logger.Error("mark reminder sent", zap.String("appointment_id", a.ID), zap.Error(err))
			continue
		}

		sse.PublishAppointmentReminder(a.AssignedTo, a.ID, a.Title)

		if s.notifier != nil && s.notifier.Enabled() {
			event := notify.Event{
				Type:       "appointment.reminder",
				OccurredAt: time.Now(),
				Data: map[string]interface{}{
					"appointment_id": a.ID,
					"title":          a.Title,
					"type":           a.Type,
					"starts_at":      a.StartsAt,
					"location":       a.Location,
					"assigned_to":    a.AssignedTo,
				},
			}
			go func() {
				if err := s.notifier.Send(context.Background(), event); err != nil {
					s.logger.Warn("reminder webhook failed", zap.Error(err))
				}
			}()
		}
	}
}

func validateRange(start, end time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("appointment must end after it starts")
	}
	return nil
}
