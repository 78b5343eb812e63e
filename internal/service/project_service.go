package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/promptdesk/promptdesk/internal/models"
	"github.com/promptdesk/promptdesk/internal/repository"
)

// projectEvents posts project lifecycle events to external webhook endpoints.
type projectEvents interface {
	ProjectEvent(ctx context.Context, verb string, project *models.Project)
}

// ProjectService handles project CRUD. Projects carry no cross-entity
// invariant beyond foreign-key existence.
type ProjectService struct {
	projects   *repository.ProjectRepository
	dispatcher projectEvents
}

// NewProjectService creates a project service.
func NewProjectService(projects *repository.ProjectRepository, dispatcher projectEvents) *ProjectService {
	return &ProjectService{projects: projects, dispatcher: dispatcher}
}

// Create persists a new project.
func (s *ProjectService) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	created, err := s.projects.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.dispatcher.ProjectEvent(ctx, "created", created)
	return created, nil
}

// Get returns one project.
func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

// List returns a bounded page of projects.
func (s *ProjectService) List(ctx context.Context, page, perPage int) ([]*models.Project, error) {
	return s.projects.List(ctx, page, perPage)
}

// Update rewrites the mutable project fields.
func (s *ProjectService) Update(ctx context.Context, p *models.Project) error {
	err := s.projects.Update(ctx, p)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	s.dispatcher.ProjectEvent(ctx, "updated", p)
	return nil
}

// Delete removes a project. The row is fetched first so the deleted event
// can still carry its name.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	err = s.projects.Delete(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	s.dispatcher.ProjectEvent(ctx, "deleted", p)
	return nil
}
