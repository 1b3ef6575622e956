package domain

import "time"

// Project is a grouping tasks may optionally reference.
type Project struct {
	ID          string
	Name        string
	Description string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
