package domain

import "time"

// Role distinguishes the two personas of the system.
type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleCustomer Role = "CUSTOMER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleCustomer
}

// User is the domain model for any authenticated account, employee or
// customer. The role column decides everything else.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
