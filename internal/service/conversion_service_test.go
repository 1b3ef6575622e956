package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tickease/tickease/internal/domain"
	"github.com/tickease/tickease/internal/events"
	"github.com/tickease/tickease/internal/repository"
)

type conversionFixture struct {
	svc        *ConversionService
	tickets    *fakeTicketRepo
	tasks      *fakeTaskRepo
	users      *fakeUserRepo
	dispatcher *capturingDispatcher
}

func newConversionFixture(ticketRepo repository.TicketRepository) conversionFixture {
	tickets := newFakeTicketRepo()
	if ticketRepo == nil {
		ticketRepo = tickets
	}
	tasks := newFakeTaskRepo()
	users := newFakeUserRepo()
	dispatcher := &capturingDispatcher{}
	svc := NewConversionService(ConversionDependencies{
		TicketRepo: ticketRepo,
		TaskRepo:   tasks,
		UserRepo:   users,
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})
	return conversionFixture{svc: svc, tickets: tickets, tasks: tasks, users: users, dispatcher: dispatcher}
}

func TestConvertInheritsTicketFields(t *testing.T) {
	f := newConversionFixture(nil)
	assignee := f.users.seed(domain.User{Role: domain.RoleEmployee})
	ticket := f.tickets.seed(domain.Ticket{
		Title:       "printer jammed",
		Description: "third floor printer",
		Status:      domain.StatusToDo,
		Priority:    domain.PriorityHigh,
		CreatedBy:   "cust-1",
	})

	task, updated, err := f.svc.Convert(context.Background(), employeePrincipal("emp-1"), ticket.ID, ConvertTicketInput{
		AssignedTo: assignee.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, ticket.Title, task.Title)
	assert.Equal(t, ticket.Description, task.Description)
	assert.Equal(t, domain.StatusToDo, task.Status)
	assert.Equal(t, domain.PriorityHigh, task.Priority)
	assert.Equal(t, assignee.ID, task.AssignedTo)
	assert.Equal(t, assignee.ID, task.UserID)
	assert.Equal(t, "emp-1", task.CreatedBy)
	require.NotNil(t, task.SourceTicketID)
	assert.Equal(t, ticket.ID, *task.SourceTicketID)

	assert.Equal(t, domain.StatusConvertedToTask, updated.Status)
	stored, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConvertedToTask, stored.Status)

	converted := f.dispatcher.published(events.EventTicketConverted)
	require.Len(t, converted, 1)
	assert.Equal(t, ticket.ID, converted[0].EntityID)
}

func TestConvertRequiresAssignee(t *testing.T) {
	f := newConversionFixture(nil)
	ticket := f.tickets.seed(domain.Ticket{Status: domain.StatusToDo, CreatedBy: "cust-1"})

	_, _, err := f.svc.Convert(context.Background(), employeePrincipal("emp-1"), ticket.ID, ConvertTicketInput{})
	requireErrorCode(t, err, "VALIDATION_FAILED")

	// Nothing moved.
	stored, getErr := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.StatusToDo, stored.Status)
	all, listErr := f.tasks.ListAll(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, all)
}

func TestConvertUnknownTicketBeatsMissingAssignee(t *testing.T) {
	f := newConversionFixture(nil)

	_, _, err := f.svc.Convert(context.Background(), employeePrincipal("emp-1"), "missing", ConvertTicketInput{})
	requireErrorCode(t, err, "NOT_FOUND")
}

func TestConvertForbiddenForCustomer(t *testing.T) {
	f := newConversionFixture(nil)
	ticket := f.tickets.seed(domain.Ticket{Status: domain.StatusToDo, CreatedBy: "cust-1"})

	_, _, err := f.svc.Convert(context.Background(), customerPrincipal("cust-1"), ticket.ID, ConvertTicketInput{
		AssignedTo: "emp-2",
	})
	requireErrorCode(t, err, "FORBIDDEN")
}

func TestConvertAlreadyConvertedTicket(t *testing.T) {
	f := newConversionFixture(nil)
	assignee := f.users.seed(domain.User{Role: domain.RoleEmployee})
	ticket := f.tickets.seed(domain.Ticket{Status: domain.StatusConvertedToTask, CreatedBy: "cust-1"})

	_, _, err := f.svc.Convert(context.Background(), employeePrincipal("emp-1"), ticket.ID, ConvertTicketInput{
		AssignedTo: assignee.ID,
	})
	requireErrorCode(t, err, "CONFLICT")
}

func TestConvertExistingDerivedTask(t *testing.T) {
	f := newConversionFixture(nil)
	assignee := f.users.seed(domain.User{Role: domain.RoleEmployee})
	ticket := f.tickets.seed(domain.Ticket{Status: domain.StatusToDo, CreatedBy: "cust-1"})
	sourceID := ticket.ID
	f.tasks.seed(domain.Task{SourceTicketID: &sourceID, AssignedTo: assignee.ID, UserID: assignee.ID})

	_, _, err := f.svc.Convert(context.Background(), employeePrincipal("emp-1"), ticket.ID, ConvertTicketInput{
		AssignedTo: assignee.ID,
	})
	requireErrorCode(t, err, "CONFLICT")
}

func TestConvertUnknownAssignee(t *testing.T) {
	f := newConversionFixture(nil)
	ticket := f.tickets.seed(domain.Ticket{Status: domain.StatusToDo, CreatedBy: "cust-1"})

	_, _, err := f.svc.Convert(context.Background(), employeePrincipal("emp-1"), ticket.ID, ConvertTicketInput{
		AssignedTo: "nobody",
	})
	requireErrorCode(t, err, "VALIDATION_FAILED")
}

// racingTicketRepo moves the ticket status between the initial read and the
// guarded update, simulating a concurrent converter.
type racingTicketRepo struct {
	*fakeTicketRepo
}

func (r *racingTicketRepo) UpdateStatusIf(ctx context.Context, id string, expected, next domain.Status) (*domain.Ticket, error) {
	_, _ = r.fakeTicketRepo.UpdateStatus(ctx, id, domain.StatusConvertedToTask)
	return r.fakeTicketRepo.UpdateStatusIf(ctx, id, expected, next)
}

func TestConvertLostRaceCompensates(t *testing.T) {
	tickets := newFakeTicketRepo()
	f := newConversionFixture(&racingTicketRepo{fakeTicketRepo: tickets})
	assignee := f.users.seed(domain.User{Role: domain.RoleEmployee})
	ticket := tickets.seed(domain.Ticket{Status: domain.StatusToDo, CreatedBy: "cust-1"})

	_, _, err := f.svc.Convert(context.Background(), employeePrincipal("emp-1"), ticket.ID, ConvertTicketInput{
		AssignedTo: assignee.ID,
	})
	requireErrorCode(t, err, "CONFLICT")

	// The compensating delete removed the half-created task.
	all, listErr := f.tasks.ListAll(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, all)
	assert.Len(t, f.tasks.deleted, 1)
	assert.Empty(t, f.dispatcher.published(events.EventTicketConverted))
}

func TestConvertOverridesPriority(t *testing.T) {
	f := newConversionFixture(nil)
	assignee := f.users.seed(domain.User{Role: domain.RoleEmployee})
	ticket := f.tickets.seed(domain.Ticket{
		Status:    domain.StatusToDo,
		Priority:  domain.PriorityLow,
		CreatedBy: "cust-1",
	})

	task, _, err := f.svc.Convert(context.Background(), employeePrincipal("emp-1"), ticket.ID, ConvertTicketInput{
		AssignedTo: assignee.ID,
		Priority:   domain.PriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityHigh, task.Priority)
}
