package domain

// Status is the shared lifecycle vocabulary for tickets and tasks. Both
// entities use the same closed set; CONVERTED_TO_TASK is a ticket-only
// terminal state and is never a legal task status.
type Status string

const (
	StatusToDo            Status = "TO_DO"
	StatusInProgress      Status = "IN_PROGRESS"
	StatusCompleted       Status = "COMPLETED"
	StatusClosed          Status = "CLOSED"
	StatusConvertedToTask Status = "CONVERTED_TO_TASK"
)

// Valid reports whether s is a member of the vocabulary.
func (s Status) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusCompleted, StatusClosed, StatusConvertedToTask:
		return true
	}
	return false
}

// ValidForTask reports whether a task may hold s.
func (s Status) ValidForTask() bool {
	return s.Valid() && s != StatusConvertedToTask
}

// Priority enumerates urgency for tickets and tasks.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
