package events

import (
	"time"

	"github.com/tickease/tickease/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketRaised        EventType = "ticket_raised"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketConverted     EventType = "ticket_converted"
	EventTaskCreated         EventType = "task_created"
	EventTaskStatusChanged   EventType = "task_status_changed"
	EventTaskDeleted         EventType = "task_deleted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketRaisedPayload payload.
type TicketRaisedPayload struct {
	Title    string          `json:"title"`
	Priority domain.Priority `json:"priority"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.Status `json:"old_status"`
	NewStatus domain.Status `json:"new_status"`
}

// TicketConvertedPayload payload.
type TicketConvertedPayload struct {
	TaskID     string `json:"task_id"`
	AssignedTo string `json:"assigned_to"`
}

// TaskCreatedPayload payload.
type TaskCreatedPayload struct {
	Title      string          `json:"title"`
	AssignedTo string          `json:"assigned_to"`
	Priority   domain.Priority `json:"priority"`
}

// TaskStatusChangedPayload payload.
type TaskStatusChangedPayload struct {
	OldStatus domain.Status `json:"old_status"`
	NewStatus domain.Status `json:"new_status"`
}

// TaskDeletedPayload payload.
type TaskDeletedPayload struct {
	Title string `json:"title"`
}
