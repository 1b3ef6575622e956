package domain

import "time"

// TaskComment is a free-form note attached to a task.
type TaskComment struct {
	Text      string    `json:"text"`
	PostedBy  string    `json:"postedBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// Task is an actionable work item. AssignedTo is the executing employee,
// UserID is the principal the task is visible to (for customers this gates
// reads and updates), CreatedBy is the authoring employee. SourceTicketID is
// set when the task was produced by converting a ticket.
type Task struct {
	ID             string
	ExternalKey    string
	Title          string
	Description    string
	Status         Status
	Priority       Priority
	DueDate        *time.Time
	ProjectID      *string
	AssignedTo     string
	UserID         string
	CreatedBy      string
	SourceTicketID *string
	Comments       []TaskComment
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
