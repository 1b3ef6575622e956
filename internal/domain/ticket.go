package domain

import "time"

// Ticket is a customer-raised issue. CreatedBy is immutable once set; only
// the owning customer may move its status, and the conversion workflow is the
// sole writer of CONVERTED_TO_TASK.
type Ticket struct {
	ID          string
	ExternalKey string
	Title       string
	Description string
	Status      Status
	Priority    Priority
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
