package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tickease/tickease/internal/domain"
	"github.com/tickease/tickease/internal/events"
	"github.com/tickease/tickease/internal/policy"
	"github.com/tickease/tickease/internal/repository"
	apperrors "github.com/tickease/tickease/pkg/util"
)

// TicketService coordinates the customer-facing issue workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles requirements for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
}

// IssueCreateInput describes an issue submission.
type IssueCreateInput struct {
	Title       string
	Description string
	Priority    domain.Priority
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
	}
}

// RaiseIssue creates a ticket owned by the calling customer.
func (s *TicketService) RaiseIssue(ctx context.Context, p policy.Principal, input IssueCreateInput) (*domain.Ticket, error) {
	if !policy.CanCreateTicket(p) {
		return nil, apperrors.NewForbidden("only customers may raise issues")
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}

	ticket := &domain.Ticket{
		ExternalKey: generateKey("TCK"),
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      domain.StatusToDo,
		Priority:    priority,
		CreatedBy:   p.ID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketRaised,
		EntityID: ticket.ID,
		Actor:    actorFor(p),
		Payload: events.TicketRaisedPayload{
			Title:    ticket.Title,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// ListOwn returns the calling customer's tickets.
func (s *TicketService) ListOwn(ctx context.Context, p policy.Principal) ([]domain.Ticket, error) {
	return s.tickets.ListByCreator(ctx, p.ID)
}

// ListAll returns every ticket; employee-only.
func (s *TicketService) ListAll(ctx context.Context, p policy.Principal) ([]domain.Ticket, error) {
	if !p.IsEmployee() {
		return nil, apperrors.NewForbidden("employee role required")
	}
	return s.tickets.ListAll(ctx)
}

// Get fetches a single ticket, enforcing read access.
func (s *TicketService) Get(ctx context.Context, p policy.Principal, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundIfNoRows(err, "ticket")
	}
	if !policy.CanReadTicket(p, ticket) {
		return nil, apperrors.NewForbidden("you do not have access to this ticket")
	}
	return ticket, nil
}

// SetStatus applies the narrow customer status update. Ownership is checked
// before the value so a non-owner always sees Forbidden, whatever they sent.
func (s *TicketService) SetStatus(ctx context.Context, p policy.Principal, ticketID string, newStatus domain.Status) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFoundIfNoRows(err, "ticket")
	}
	if !policy.CanSetTicketStatus(p, ticket) {
		return nil, apperrors.NewForbidden("only the ticket owner may update its status")
	}
	if !policy.CustomerSettableTicketStatus(newStatus) {
		return nil, apperrors.NewValidationError("status must be CLOSED or TO_DO", map[string]any{"status": newStatus})
	}

	oldStatus := ticket.Status
	updated, err := s.tickets.UpdateStatus(ctx, ticketID, newStatus)
	if err != nil {
		return nil, notFoundIfNoRows(err, "ticket")
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		EntityID: updated.ID,
		Actor:    actorFor(p),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: updated.Status,
		},
	})
	return updated, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	publishEvent(ctx, s.dispatcher, event)
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = dispatcher.Publish(ctx, event)
}

func actorFor(p policy.Principal) events.Actor {
	return events.Actor{UserID: p.ID, Role: p.Role}
}

func generateKey(prefix string) string {
	return prefix + "-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func notFoundIfNoRows(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return err
}
