package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/tickease/tickease/internal/api/dto"
	"github.com/tickease/tickease/internal/auth"
	"github.com/tickease/tickease/internal/domain"
	"github.com/tickease/tickease/internal/service"
	apperrors "github.com/tickease/tickease/pkg/util"
)

// TasksHandler manages task endpoints including ticket conversion.
type TasksHandler struct {
	tasks      *service.TaskService
	conversion *service.ConversionService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(tasks *service.TaskService, conversion *service.ConversionService) *TasksHandler {
	return &TasksHandler{tasks: tasks, conversion: conversion}
}

// CreateTask POST /tasks.
func (h *TasksHandler) CreateTask(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	task, err := h.tasks.Create(c.Context(), principal.Policy(), service.TaskCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		ProjectID:   req.ProjectID,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": taskResponse(task)})
}

// ListTasks GET /tasks.
func (h *TasksHandler) ListTasks(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	tasks, err := h.tasks.List(c.Context(), principal.Policy())
	if err != nil {
		return err
	}
	items := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, taskResponse(&tasks[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateTask PUT /tasks/:id.
func (h *TasksHandler) UpdateTask(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	// The set of provided keys drives the field-level permission check, so
	// the raw body is inspected before the typed parse.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(raw) == 0 {
		return apperrors.NewValidationError("no fields provided", nil)
	}
	fields := make([]string, 0, len(raw))
	for key := range raw {
		fields = append(fields, key)
	}

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	task, err := h.tasks.UpdateFields(c.Context(), principal.Policy(), c.Params("id"), service.TaskUpdateInput{
		Fields:      fields,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		ProjectID:   req.ProjectID,
		AssignedTo:  req.AssignedTo,
		UserID:      req.UserID,
		Comments:    req.Comments,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponse(task)})
}

// UpdateStatus PUT /tasks/:id/status.
func (h *TasksHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateTaskStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	task, err := h.tasks.SetStatus(c.Context(), principal.Policy(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponse(task)})
}

// ConvertTicket PUT /tasks/convert-ticket/:id.
func (h *TasksHandler) ConvertTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ConvertTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	task, ticket, err := h.conversion.Convert(c.Context(), principal.Policy(), c.Params("id"), service.ConvertTicketInput{
		AssignedTo: req.AssignedTo,
		Priority:   req.Priority,
		ProjectID:  req.ProjectID,
		DueDate:    req.DueDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":    taskResponse(task),
		"ticket":  ticketResponse(ticket),
		"message": "ticket successfully converted to task",
	})
}

// DeleteTask DELETE /tasks/:id.
func (h *TasksHandler) DeleteTask(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.tasks.Delete(c.Context(), principal.Policy(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "task deleted successfully"})
}

func taskResponse(task *domain.Task) dto.TaskResponse {
	comments := task.Comments
	if comments == nil {
		comments = []domain.TaskComment{}
	}
	return dto.TaskResponse{
		ID:             task.ID,
		ExternalKey:    task.ExternalKey,
		Title:          task.Title,
		Description:    task.Description,
		Status:         task.Status,
		Priority:       task.Priority,
		DueDate:        task.DueDate,
		ProjectID:      task.ProjectID,
		AssignedTo:     task.AssignedTo,
		UserID:         task.UserID,
		CreatedBy:      task.CreatedBy,
		SourceTicketID: task.SourceTicketID,
		Comments:       comments,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
}
