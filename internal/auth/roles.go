package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tickease/tickease/internal/domain"
	apperrors "github.com/tickease/tickease/pkg/util"
)

// RequireEmployee restricts a route to employee principals.
func RequireEmployee() fiber.Handler {
	return requireRole(domain.RoleEmployee)
}

// RequireCustomer restricts a route to customer principals.
func RequireCustomer() fiber.Handler {
	return requireRole(domain.RoleCustomer)
}

// RequireAnyRole ensures the caller is authenticated.
func RequireAnyRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

func requireRole(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.User.Role != role {
			return apperrors.NewForbidden("you do not have permission to access this resource")
		}
		return c.Next()
	}
}
