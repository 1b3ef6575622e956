package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tickease/tickease/internal/api/dto"
	"github.com/tickease/tickease/internal/service"
)

// MembersHandler exposes the employee directory.
type MembersHandler struct {
	members *service.MemberService
}

// NewMembersHandler constructs handler.
func NewMembersHandler(members *service.MemberService) *MembersHandler {
	return &MembersHandler{members: members}
}

// ListMembers GET /members.
func (h *MembersHandler) ListMembers(c *fiber.Ctx) error {
	employees, err := h.members.ListEmployees(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(employees))
	for i := range employees {
		items = append(items, userResponse(&employees[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
