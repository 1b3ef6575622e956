package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tickease/tickease/internal/api/dto"
	"github.com/tickease/tickease/internal/auth"
	"github.com/tickease/tickease/internal/domain"
	"github.com/tickease/tickease/internal/service"
	apperrors "github.com/tickease/tickease/pkg/util"
)

// ProjectsHandler manages the project catalog.
type ProjectsHandler struct {
	projects *service.ProjectService
}

// NewProjectsHandler constructs handler.
func NewProjectsHandler(projects *service.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{projects: projects}
}

// CreateProject POST /projects.
func (h *ProjectsHandler) CreateProject(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	project, err := h.projects.Create(c.Context(), principal.Policy(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": projectResponse(project)})
}

// ListProjects GET /projects.
func (h *ProjectsHandler) ListProjects(c *fiber.Ctx) error {
	projects, err := h.projects.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		items = append(items, projectResponse(&projects[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func projectResponse(project *domain.Project) dto.ProjectResponse {
	return dto.ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		CreatedBy:   project.CreatedBy,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}
