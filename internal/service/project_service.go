package service

import (
	"context"
	"strings"

	"github.com/tickease/tickease/internal/domain"
	"github.com/tickease/tickease/internal/policy"
	"github.com/tickease/tickease/internal/repository"
	apperrors "github.com/tickease/tickease/pkg/util"
)

// ProjectService manages the small project catalog tasks may reference.
type ProjectService struct {
	projects repository.ProjectRepository
}

// NewProjectService constructs the service.
func NewProjectService(projects repository.ProjectRepository) *ProjectService {
	return &ProjectService{projects: projects}
}

// Create adds a project; employee-only.
func (s *ProjectService) Create(ctx context.Context, p policy.Principal, name, description string) (*domain.Project, error) {
	if !p.IsEmployee() {
		return nil, apperrors.NewForbidden("only employees may create projects")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	project := &domain.Project{
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedBy:   p.ID,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// List returns all projects.
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.projects.List(ctx)
}
