package service

import (
	"context"
	"fmt"
	"time"

	"github.com/drapehq/drapehq/internal/crm/entity"
	"github.com/drapehq/drapehq/internal/crm/repository"
	"github.com/drapehq/drapehq/internal/sse"
	"github.com/google/uuid"
)

// ProjectService manages jobs and their status workflow.
type ProjectService struct {
	repo       *repository.ProjectRepository
	clientRepo *repository.ClientRepository
}

func NewProjectService(repo *repository.ProjectRepository, clientRepo *repository.ClientRepository) *ProjectService {
	return &ProjectService{repo: repo, clientRepo: clientRepo}
}

// CreateProjectRequest is the create payload.
type CreateProjectRequest struct {
	Name        string     `json:"name" binding:"required"`
	ClientID    string     `json:"client_id" binding:"required"`
	SiteAddress string     `json:"site_address"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  string     `json:"assigned_to"`
	Notes       string     `json:"notes"`
}

// UpdateProjectRequest is the partial update payload. Status moves
// through UpdateStatus, not here.
type UpdateProjectRequest struct {
	Name        *string    `json:"name"`
	SiteAddress *string    `json:"site_address"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  *string    `json:"assigned_to"`
	Notes       *string    `json:"notes"`
}

func (s *ProjectService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Project, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

func (s *ProjectService) Get(ctx context.Context, id string) (*entity.Project, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProjectService) Create(ctx context.Context, userID string, req *CreateProjectRequest) (*entity.Project, error) {
	if _, err := s.clientRepo.FindByID(ctx, req.ClientID); err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}

	jobNumber, err := s.repo.GenerateJobNumber(ctx)
	if err != nil {
		return nil, err
	}

	project := &entity.Project{
		ID:          uuid.New().String()[:32],
		JobNumber:   jobNumber,
		Name:        req.Name,
		ClientID:    req.ClientID,
		Status:      entity.ProjectStatusDraft,
		SiteAddress: req.SiteAddress,
		Description: req.Description,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
		Notes:       req.Notes,
		CreatedBy:   userID,
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, id string, req *UpdateProjectRequest) (*entity.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.SiteAddress != nil {
		project.SiteAddress = *req.SiteAddress
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.DueDate != nil {
		project.DueDate = req.DueDate
	}
	if req.AssignedTo != nil {
		project.AssignedTo = *req.AssignedTo
	}
	if req.Notes != nil {
		project.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// UpdateStatus moves the project through its workflow, rejecting
// transitions the workflow does not allow.
func (s *ProjectService) UpdateStatus(ctx context.Context, id, status string) (*entity.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !project.CanTransition(status) {
		return nil, fmt.Errorf("cannot move job from %s to %s", project.Status, status)
	}

	project.Status = status
	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}

	sse.PublishJobUpdate(project.ID, status)
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if project.Status != entity.ProjectStatusDraft && project.Status != entity.ProjectStatusCancelled {
		return fmt.Errorf("only draft or cancelled jobs can be deleted")
	}
	return s.repo.Delete(ctx, id)
}
