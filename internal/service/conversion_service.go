package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/tickease/tickease/internal/domain"
	"github.com/tickease/tickease/internal/events"
	"github.com/tickease/tickease/internal/policy"
	"github.com/tickease/tickease/internal/repository"
	apperrors "github.com/tickease/tickease/pkg/util"
)

// ConversionService turns a customer ticket into an assignable task and
// retires the ticket. The two writes are not a single storage transaction;
// the ticket update is a compare-and-set on the status read at the start, and
// a lost race compensates by deleting the freshly created task. Exactly one
// of two concurrent converters wins, the other gets a Conflict.
type ConversionService struct {
	tickets    repository.TicketRepository
	tasks      repository.TaskRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ConversionDependencies bundles requirements for the conversion service.
type ConversionDependencies struct {
	TicketRepo repository.TicketRepository
	TaskRepo   repository.TaskRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// ConvertTicketInput describes the employee's conversion request.
type ConvertTicketInput struct {
	AssignedTo string
	Priority   domain.Priority
	ProjectID  *string
	DueDate    *time.Time
}

// NewConversionService constructs the service.
func NewConversionService(deps ConversionDependencies) *ConversionService {
	return &ConversionService{
		tickets:    deps.TicketRepo,
		tasks:      deps.TaskRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Convert runs the conversion workflow and returns the new task together
// with the retired ticket.
func (s *ConversionService) Convert(ctx context.Context, p policy.Principal, ticketID string, input ConvertTicketInput) (*domain.Task, *domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, nil, notFoundIfNoRows(err, "ticket")
	}
	if strings.TrimSpace(input.AssignedTo) == "" {
		return nil, nil, apperrors.NewValidationError("assignedTo required", nil)
	}
	if !policy.CanConvertTicket(p) {
		return nil, nil, apperrors.NewForbidden("only employees may convert tickets")
	}
	if ticket.Status == domain.StatusConvertedToTask {
		return nil, nil, apperrors.NewConflict("ticket already converted", map[string]any{"ticketId": ticket.ID})
	}
	alreadyConverted, err := s.tasks.ExistsBySourceTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, err
	}
	if alreadyConverted {
		return nil, nil, apperrors.NewConflict("ticket already converted", map[string]any{"ticketId": ticket.ID})
	}
	if err := s.resolveAssignee(ctx, input.AssignedTo); err != nil {
		return nil, nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = ticket.Priority
	}
	if !priority.Valid() {
		return nil, nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}

	sourceID := ticket.ID
	task := &domain.Task{
		ExternalKey:    generateKey("TSK"),
		Title:          ticket.Title,
		Description:    ticket.Description,
		Status:         domain.StatusToDo,
		Priority:       priority,
		DueDate:        input.DueDate,
		ProjectID:      input.ProjectID,
		AssignedTo:     input.AssignedTo,
		UserID:         input.AssignedTo,
		CreatedBy:      p.ID,
		SourceTicketID: &sourceID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, nil, err
	}

	updated, err := s.tickets.UpdateStatusIf(ctx, ticket.ID, ticket.Status, domain.StatusConvertedToTask)
	if err != nil {
		s.compensate(ctx, task.ID)
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, nil, apperrors.NewConflict("ticket was converted concurrently", map[string]any{"ticketId": ticket.ID})
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, nil, err
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:     events.EventTicketConverted,
		EntityID: ticket.ID,
		Actor:    actorFor(p),
		Payload: events.TicketConvertedPayload{
			TaskID:     task.ID,
			AssignedTo: task.AssignedTo,
		},
	})
	return task, updated, nil
}

// compensate removes the task created by a conversion whose ticket update
// failed, so no half-converted state survives.
func (s *ConversionService) compensate(ctx context.Context, taskID string) {
	if err := s.tasks.Delete(ctx, taskID); err != nil && s.logger != nil {
		s.logger.Error("failed to compensate conversion task",
			zap.String("task_id", taskID), zap.Error(err))
	}
}

func (s *ConversionService) resolveAssignee(ctx context.Context, userID string) error {
	if s.users == nil {
		return nil
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("assignedTo does not resolve to a member", map[string]any{"assignedTo": userID})
		}
		return err
	}
	return nil
}
