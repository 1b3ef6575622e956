package dto

import (
	"time"

	"github.com/tickease/tickease/internal/domain"
)

// CreateTaskRequest payload for direct task creation.
type CreateTaskRequest struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description"`
	Priority    domain.Priority `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	DueDate     *time.Time      `json:"dueDate"`
	ProjectID   *string         `json:"projectId"`
	AssignedTo  string          `json:"assignedTo" validate:"required"`
}

// ConvertTicketRequest payload. Presence of assignedTo is checked by the
// conversion workflow itself, after the ticket lookup.
type ConvertTicketRequest struct {
	AssignedTo string          `json:"assignedTo"`
	Priority   domain.Priority `json:"priority"`
	ProjectID  *string         `json:"projectId"`
	DueDate    *time.Time      `json:"dueDate"`
}

// UpdateTaskRequest carries the typed values of a partial update; the set of
// provided keys is taken from the raw body.
type UpdateTaskRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Status      *domain.Status       `json:"status"`
	Priority    *domain.Priority     `json:"priority"`
	DueDate     *time.Time           `json:"dueDate"`
	ProjectID   *string              `json:"projectId"`
	AssignedTo  *string              `json:"assignedTo"`
	UserID      *string              `json:"userId"`
	Comments    []domain.TaskComment `json:"comments"`
}

// UpdateTaskStatusRequest payload.
type UpdateTaskStatusRequest struct {
	Status domain.Status `json:"status"`
}

// TaskResponse representation.
type TaskResponse struct {
	ID             string               `json:"id"`
	ExternalKey    string               `json:"externalKey"`
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	Status         domain.Status        `json:"status"`
	Priority       domain.Priority      `json:"priority"`
	DueDate        *time.Time           `json:"dueDate"`
	ProjectID      *string              `json:"projectId"`
	AssignedTo     string               `json:"assignedTo"`
	UserID         string               `json:"userId"`
	CreatedBy      string               `json:"createdBy"`
	SourceTicketID *string              `json:"sourceTicketId"`
	Comments       []domain.TaskComment `json:"comments"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}
