package dto

import (
	"time"

	"github.com/tickease/tickease/internal/domain"
)

// CreateIssueRequest payload for customer-raised issues.
type CreateIssueRequest struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description"`
	Priority    domain.Priority `json:"priority" validate:"omitempty,oneof=Low Medium High"`
}

// UpdateTicketStatusRequest payload.
type UpdateTicketStatusRequest struct {
	Status domain.Status `json:"status"`
}

// TicketResponse representation.
type TicketResponse struct {
	ID          string          `json:"id"`
	ExternalKey string          `json:"externalKey"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      domain.Status   `json:"status"`
	Priority    domain.Priority `json:"priority"`
	CreatedBy   string          `json:"createdBy"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
