package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tickease/tickease/internal/domain"
	"github.com/tickease/tickease/internal/events"
	"github.com/tickease/tickease/internal/policy"
	"github.com/tickease/tickease/internal/repository"
	apperrors "github.com/tickease/tickease/pkg/util"
)

// TaskService coordinates task creation and the role-scoped task lifecycle.
type TaskService struct {
	tasks      repository.TaskRepository
	users      repository.UserRepository
	projects   repository.ProjectRepository
	dispatcher events.Dispatcher
}

// TaskDependencies bundles requirements for the task service.
type TaskDependencies struct {
	TaskRepo    repository.TaskRepository
	UserRepo    repository.UserRepository
	ProjectRepo repository.ProjectRepository
	Dispatcher  events.Dispatcher
}

// TaskCreateInput describes direct task creation by an employee.
type TaskCreateInput struct {
	Title       string
	Description string
	Priority    domain.Priority
	DueDate     *time.Time
	ProjectID   *string
	AssignedTo  string
}

// TaskUpdateInput carries a partial update. Fields lists the JSON keys the
// caller actually sent; only those are validated and applied.
type TaskUpdateInput struct {
	Fields      []string
	Title       *string
	Description *string
	Status      *domain.Status
	Priority    *domain.Priority
	DueDate     *time.Time
	ProjectID   *string
	AssignedTo  *string
	UserID      *string
	Comments    []domain.TaskComment
}

// NewTaskService constructs the service.
func NewTaskService(deps TaskDependencies) *TaskService {
	return &TaskService{
		tasks:      deps.TaskRepo,
		users:      deps.UserRepo,
		projects:   deps.ProjectRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Create creates a task assigned to an employee.
func (s *TaskService) Create(ctx context.Context, p policy.Principal, input TaskCreateInput) (*domain.Task, error) {
	if !policy.CanCreateTask(p) {
		return nil, apperrors.NewForbidden("only employees may create tasks")
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if strings.TrimSpace(input.AssignedTo) == "" {
		return nil, apperrors.NewValidationError("assignedTo required", nil)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}
	if err := s.resolveAssignee(ctx, input.AssignedTo); err != nil {
		return nil, err
	}
	if err := s.resolveProject(ctx, input.ProjectID); err != nil {
		return nil, err
	}

	task := &domain.Task{
		ExternalKey: generateKey("TSK"),
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      domain.StatusToDo,
		Priority:    priority,
		DueDate:     input.DueDate,
		ProjectID:   input.ProjectID,
		AssignedTo:  input.AssignedTo,
		UserID:      input.AssignedTo,
		CreatedBy:   p.ID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTaskCreated,
		EntityID: task.ID,
		Actor:    actorFor(p),
		Payload: events.TaskCreatedPayload{
			Title:      task.Title,
			AssignedTo: task.AssignedTo,
			Priority:   task.Priority,
		},
	})
	return task, nil
}

// List returns every task for employees, and only owned tasks for customers.
func (s *TaskService) List(ctx context.Context, p policy.Principal) ([]domain.Task, error) {
	if p.IsEmployee() {
		return s.tasks.ListAll(ctx)
	}
	return s.tasks.ListByOwner(ctx, p.ID)
}

// UpdateFields applies a partial update. The field-name check is
// all-or-nothing: one disallowed field rejects the whole payload and the task
// is left untouched.
func (s *TaskService) UpdateFields(ctx context.Context, p policy.Principal, taskID string, input TaskUpdateInput) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, notFoundIfNoRows(err, "task")
	}
	if !policy.CanUpdateTaskFields(p, task, input.Fields) {
		return nil, apperrors.NewForbidden("restricted fields")
	}

	for _, field := range input.Fields {
		switch field {
		case "title":
			if input.Title == nil || strings.TrimSpace(*input.Title) == "" {
				return nil, apperrors.NewValidationError("title must be non-empty", nil)
			}
			task.Title = strings.TrimSpace(*input.Title)
		case "description":
			if input.Description != nil {
				task.Description = strings.TrimSpace(*input.Description)
			}
		case "status":
			if input.Status == nil || !input.Status.ValidForTask() {
				return nil, apperrors.NewValidationError("invalid status", nil)
			}
			task.Status = *input.Status
		case "priority":
			if input.Priority == nil || !input.Priority.Valid() {
				return nil, apperrors.NewValidationError("invalid priority", nil)
			}
			task.Priority = *input.Priority
		case "dueDate":
			task.DueDate = input.DueDate
		case "projectId":
			if err := s.resolveProject(ctx, input.ProjectID); err != nil {
				return nil, err
			}
			task.ProjectID = input.ProjectID
		case "assignedTo":
			if input.AssignedTo == nil || strings.TrimSpace(*input.AssignedTo) == "" {
				return nil, apperrors.NewValidationError("assignedTo must be non-empty", nil)
			}
			if err := s.resolveAssignee(ctx, *input.AssignedTo); err != nil {
				return nil, err
			}
			task.AssignedTo = *input.AssignedTo
		case "userId":
			if input.UserID == nil || strings.TrimSpace(*input.UserID) == "" {
				return nil, apperrors.NewValidationError("userId must be non-empty", nil)
			}
			task.UserID = *input.UserID
		case "comments":
			task.Comments = input.Comments
		default:
			return nil, apperrors.NewValidationError("unknown field", map[string]any{"field": field})
		}
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, notFoundIfNoRows(err, "task")
	}
	return task, nil
}

// SetStatus applies the narrow status update for a task.
func (s *TaskService) SetStatus(ctx context.Context, p policy.Principal, taskID string, newStatus domain.Status) (*domain.Task, error) {
	if !newStatus.ValidForTask() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": newStatus})
	}
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, notFoundIfNoRows(err, "task")
	}
	if !policy.CanSetTaskStatus(p, task) {
		return nil, apperrors.NewForbidden("you do not have access to this task")
	}

	oldStatus := task.Status
	updated, err := s.tasks.UpdateStatus(ctx, taskID, newStatus)
	if err != nil {
		return nil, notFoundIfNoRows(err, "task")
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTaskStatusChanged,
		EntityID: updated.ID,
		Actor:    actorFor(p),
		Payload: events.TaskStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: updated.Status,
		},
	})
	return updated, nil
}

// Delete removes a task. Any employee may delete any task.
func (s *TaskService) Delete(ctx context.Context, p policy.Principal, taskID string) error {
	if !policy.CanDeleteTask(p) {
		return apperrors.NewForbidden("only employees may delete tasks")
	}
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return notFoundIfNoRows(err, "task")
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return notFoundIfNoRows(err, "task")
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTaskDeleted,
		EntityID: task.ID,
		Actor:    actorFor(p),
		Payload:  events.TaskDeletedPayload{Title: task.Title},
	})
	return nil
}

func (s *TaskService) resolveAssignee(ctx context.Context, userID string) error {
	if s.users == nil {
		return nil
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("assignedTo does not resolve to a member", map[string]any{"assignedTo": userID})
		}
		return err
	}
	return nil
}

func (s *TaskService) resolveProject(ctx context.Context, projectID *string) error {
	if s.projects == nil || projectID == nil {
		return nil
	}
	if _, err := s.projects.GetByID(ctx, *projectID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("project does not exist", map[string]any{"projectId": *projectID})
		}
		return err
	}
	return nil
}
