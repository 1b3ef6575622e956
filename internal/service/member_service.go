package service

import (
	"context"

	"github.com/tickease/tickease/internal/domain"
	"github.com/tickease/tickease/internal/repository"
)

// MemberService exposes the employee directory used when assigning tasks.
type MemberService struct {
	users repository.UserRepository
}

// NewMemberService constructs the service.
func NewMemberService(users repository.UserRepository) *MemberService {
	return &MemberService{users: users}
}

// ListEmployees returns every employee account.
func (s *MemberService) ListEmployees(ctx context.Context) ([]domain.User, error) {
	return s.users.ListByRole(ctx, domain.RoleEmployee)
}
