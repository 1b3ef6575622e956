// Package policy centralizes every role- and ownership-based authorization
// decision for tickets and tasks. Decisions are pure functions over the
// principal and entity state so they can be tested without HTTP or storage.
package policy

import "github.com/tickease/tickease/internal/domain"

// Principal is the authenticated {id, role} pair every decision runs against.
type Principal struct {
	ID   string
	Role domain.Role
}

// IsEmployee reports whether the principal holds the employee role.
func (p Principal) IsEmployee() bool {
	return p.Role == domain.RoleEmployee
}

// CanReadTicket allows employees, and customers who raised the ticket.
func CanReadTicket(p Principal, ticket *domain.Ticket) bool {
	return p.IsEmployee() || p.ID == ticket.CreatedBy
}

// CanReadTask allows employees, and the customer the task is for.
func CanReadTask(p Principal, task *domain.Task) bool {
	return p.IsEmployee() || p.ID == task.UserID
}

// CanCreateTask allows only employees.
func CanCreateTask(p Principal) bool {
	return p.IsEmployee()
}

// CanCreateTicket allows only customers; employees have no issue-raising path.
func CanCreateTicket(p Principal) bool {
	return p.Role == domain.RoleCustomer
}

// CanDeleteTask allows any employee. Deliberately no ownership check.
func CanDeleteTask(p Principal) bool {
	return p.IsEmployee()
}

// CanConvertTicket allows only employees.
func CanConvertTicket(p Principal) bool {
	return p.IsEmployee()
}

// CanSetTaskStatus allows employees on any task and customers on tasks that
// belong to them.
func CanSetTaskStatus(p Principal, task *domain.Task) bool {
	return p.IsEmployee() || p.ID == task.UserID
}

// CanSetTicketStatus allows only the owning customer. The value itself is
// checked separately by CustomerSettableTicketStatus.
func CanSetTicketStatus(p Principal, ticket *domain.Ticket) bool {
	return p.ID == ticket.CreatedBy
}

// CustomerSettableTicketStatus reports whether a customer may request the
// given ticket status. Forward-progress states are driven through the derived
// task, never directly on the ticket.
func CustomerSettableTicketStatus(s domain.Status) bool {
	return s == domain.StatusClosed || s == domain.StatusToDo
}

var customerUpdatableTaskFields = map[string]struct{}{
	"status":   {},
	"comments": {},
}

// CanUpdateTaskFields decides a generic partial update. Employees are
// unrestricted. Customers must own the task and every requested field must be
// in the whitelist; one disallowed field rejects the whole update.
func CanUpdateTaskFields(p Principal, task *domain.Task, fields []string) bool {
	if p.IsEmployee() {
		return true
	}
	if p.ID != task.UserID {
		return false
	}
	for _, field := range fields {
		if _, ok := customerUpdatableTaskFields[field]; !ok {
			return false
		}
	}
	return true
}
