package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tickease/tickease/internal/api/http/handlers"
	"github.com/tickease/tickease/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tasks          *handlers.TasksHandler
	Tickets        *handlers.TicketsHandler
	Members        *handlers.MembersHandler
	Projects       *handlers.ProjectsHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	// Fixed paths are registered before the /:id wildcards.
	tasks := app.Group("/tasks", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	tasks.Post("/issue", auth.RequireCustomer(), cfg.Tickets.CreateIssue)
	tasks.Get("/my-tickets", auth.RequireCustomer(), cfg.Tickets.ListMyTickets)
	tasks.Get("/customer-tickets", auth.RequireEmployee(), cfg.Tickets.ListCustomerTickets)
	tasks.Get("/ticket/:id", cfg.Tickets.GetTicket)
	tasks.Put("/tickets/:id/status", auth.RequireCustomer(), cfg.Tickets.UpdateTicketStatus)
	tasks.Put("/convert-ticket/:id", auth.RequireEmployee(), cfg.Tasks.ConvertTicket)
	tasks.Post("/", auth.RequireEmployee(), cfg.Tasks.CreateTask)
	tasks.Get("/", cfg.Tasks.ListTasks)
	tasks.Put("/:id/status", cfg.Tasks.UpdateStatus)
	tasks.Put("/:id", cfg.Tasks.UpdateTask)
	tasks.Delete("/:id", auth.RequireEmployee(), cfg.Tasks.DeleteTask)

	members := app.Group("/members", cfg.AuthMiddleware.Handle, auth.RequireEmployee())
	members.Get("/", cfg.Members.ListMembers)

	projects := app.Group("/projects", cfg.AuthMiddleware.Handle, auth.RequireEmployee())
	projects.Get("/", cfg.Projects.ListProjects)
	projects.Post("/", cfg.Projects.CreateProject)

	dashboard := app.Group("/dashboard", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	dashboard.Get("/", cfg.Dashboard.Stats)
}
